package main

import (
	"crypto/md5"
	"encoding/hex"
	"net/url"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/moxcomic/ihttp"
	log "github.com/sirupsen/logrus"
)

// wbi签名 https://github.com/SocialSisterYi/bilibili-API-collect/blob/master/docs/misc/sign/wbi.md
var mixinKeyEncTab = []int{
	46, 47, 18, 2, 53, 8, 23, 32, 15, 50, 10, 31, 58, 3, 45, 35, 27, 43, 5, 49,
	33, 9, 42, 19, 29, 28, 14, 39, 12, 38, 41, 13, 37, 48, 7, 16, 24, 55, 40,
	61, 26, 17, 0, 1, 60, 51, 30, 4, 22, 25, 54, 21, 56, 59, 6, 63, 57, 62, 11,
	36, 20, 34, 44, 52,
}

var wbiKeys = struct {
	sync.Mutex
	imgKey     string
	subKey     string
	lastUpdate time.Time
}{}

var wbiValueReplacer = strings.NewReplacer("!", "", "'", "", "(", "", ")", "", "*", "")

// 对url的query追加wts与w_rid
func signURL(urlStr string) string {
	urlObj, err := url.Parse(urlStr)
	if err != nil {
		log.Error("[bilibili] signURL().url解析错误: ", err)
		return urlStr
	}
	imgKey, subKey := getWbiKeysCached()
	query := urlObj.Query()
	params := map[string]string{}
	for k, v := range query {
		if len(v) > 0 {
			params[k] = v[0]
		}
	}
	for k, v := range wbiSign(params, imgKey, subKey) {
		query.Set(k, v)
	}
	urlObj.RawQuery = query.Encode()
	return urlObj.String()
}

func getMixinKey(orig string) string {
	var str strings.Builder
	for _, v := range mixinKeyEncTab {
		if v < len(orig) {
			str.WriteByte(orig[v])
		}
		if str.Len() >= 32 {
			break
		}
	}
	return str.String()
}

func wbiSign(params map[string]string, imgKey string, subKey string) map[string]string {
	mixinKey := getMixinKey(imgKey + subKey)
	params["wts"] = strconv.FormatInt(time.Now().Unix(), 10)
	keys := make([]string, 0, len(params))
	for k, v := range params {
		keys = append(keys, k)
		params[k] = wbiValueReplacer.Replace(v) //过滤特殊字符
	}
	sort.Strings(keys)
	h := md5.New()
	for i, k := range keys {
		h.Write([]byte(k))
		h.Write([]byte{'='})
		h.Write([]byte(params[k]))
		if i < len(keys)-1 {
			h.Write([]byte{'&'})
		}
	}
	h.Write([]byte(mixinKey))
	params["w_rid"] = hex.EncodeToString(h.Sum(nil))
	return params
}

// 密钥每10分钟刷新一次
func getWbiKeysCached() (string, string) {
	wbiKeys.Lock()
	defer wbiKeys.Unlock()
	if time.Since(wbiKeys.lastUpdate).Minutes() > 10 {
		imgKey, subKey := getWbiKeys()
		if imgKey != "" && subKey != "" {
			wbiKeys.imgKey = imgKey
			wbiKeys.subKey = subKey
			wbiKeys.lastUpdate = time.Now()
		}
	}
	return wbiKeys.imgKey, wbiKeys.subKey
}

func getWbiKeys() (string, string) {
	data, err := ihttp.New().WithUrl("https://api.bilibili.com/x/web-interface/nav").
		WithHeaders(iheaders).Get().ToGson()
	if err != nil {
		log.Error("[bilibili] getWbiKeys().ihttp请求错误: ", err)
		return "", ""
	}
	imgURL := data.Get("data.wbi_img.img_url").Str()
	subURL := data.Get("data.wbi_img.sub_url").Str()
	imgKey := imgURL[strings.LastIndex(imgURL, "/")+1:]
	imgKey = strings.TrimSuffix(imgKey, filepath.Ext(imgKey))
	subKey := subURL[strings.LastIndex(subURL, "/")+1:]
	subKey = strings.TrimSuffix(subKey, filepath.Ext(subKey))
	return imgKey, subKey
}
