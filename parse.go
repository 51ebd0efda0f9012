package main

import (
	"net/http"
	"regexp"
	"strconv"
	"sync"
	"time"

	"github.com/lbsucceed/comment-analysis-bot/OneBot"

	log "github.com/sirupsen/logrus"
)

// 链接类型, 闭集
type linkKind int

const (
	kindNone linkKind = iota
	kindVideo
	kindLive
	kindArticle
	kindOpus
	kindFavlist
	kindShort
)

func (k linkKind) String() string {
	switch k {
	case kindVideo:
		return "VIDEO"
	case kindLive:
		return "LIVE"
	case kindArticle:
		return "ARTICLE"
	case kindOpus:
		return "OPUS"
	case kindFavlist:
		return "FAVLIST"
	case kindShort:
		return "SHORT"
	}
	return "NONE"
}

// 识别结果, ID为已校验的标识符
type biliLink struct {
	Kind linkKind
	ID   string
}

// `\\?`容忍上报中被转义的斜杠
var biliLinkRegexp = struct {
	OPUS     string
	ARCHIVEa string
	ARCHIVEb string
	BVONLY   string
	ARTICLE  string
	LIVE     string
	FAVLIST  string
	SHORT    string
	PAGE     string
}{
	OPUS:     `(t.bilibili.com|dynamic|opus)\\?/([0-9]{18,19})`,              //应该不会有17位的
	ARCHIVEa: `video\\?/av([0-9]{1,10})`,                                     //9位 预留10
	ARCHIVEb: `video\\?/(BV[1-9A-HJ-NP-Za-km-z]{10})`,                        //恒定BV + 10位base58
	BVONLY:   `^(BV[1-9A-HJ-NP-Za-km-z]{10})$`,                               //裸BV号
	ARTICLE:  `(read\\?/cv|read\\?/mobile\\?/)([0-9]{1,9})`,                  //8位 预留9
	LIVE:     `live\.bilibili\.com\\?/([0-9]{1,9})`,                          //8位 预留9
	FAVLIST:  `favlist\?fid=([0-9]{1,19})`,                                   //收藏夹
	SHORT:    `(b23\.tv|bili2233\.cn)\\?/(BV[1-9A-HJ-NP-Za-km-z]{10}|av[0-9]{1,10}|[0-9A-Za-z]{7})`, //暂时应该只有7位
	PAGE:     `[?&]p=([0-9]{1,3})`,                                           //分P
}

type parseHistory struct {
	WHERE int
	TIME  int64
}

var (
	parseHistoryMutex sync.Mutex
	parseHistoryList  = make(map[string]parseHistory) //id : group/user, time
)

func extractor(str string) biliLink {
	opusID := regexp.MustCompile(biliLinkRegexp.OPUS).FindAllStringSubmatch(str, -1)
	aid := regexp.MustCompile(biliLinkRegexp.ARCHIVEa).FindAllStringSubmatch(str, -1)
	bvid := regexp.MustCompile(biliLinkRegexp.ARCHIVEb).FindAllStringSubmatch(str, -1)
	bvOnly := regexp.MustCompile(biliLinkRegexp.BVONLY).FindAllStringSubmatch(str, -1)
	cvid := regexp.MustCompile(biliLinkRegexp.ARTICLE).FindAllStringSubmatch(str, -1)
	roomID := regexp.MustCompile(biliLinkRegexp.LIVE).FindAllStringSubmatch(str, -1)
	favID := regexp.MustCompile(biliLinkRegexp.FAVLIST).FindAllStringSubmatch(str, -1)
	switch {
	case len(opusID) > 0:
		log.Debug("[parse] 识别到一个动态: ", opusID[0][2])
		return biliLink{kindOpus, opusID[0][2]}
	case len(favID) > 0: //收藏夹链接往往同时带有其他路径成分, 优先判断
		log.Debug("[parse] 识别到一个收藏夹: ", favID[0][1])
		return biliLink{kindFavlist, favID[0][1]}
	case len(aid) > 0:
		log.Debug("[parse] 识别到一个视频(av): ", aid[0][1])
		return biliLink{kindVideo, "av" + aid[0][1]}
	case len(bvid) > 0:
		log.Debug("[parse] 识别到一个视频(BV): ", bvid[0][1])
		return biliLink{kindVideo, bvid[0][1]}
	case len(bvOnly) > 0:
		log.Debug("[parse] 识别到一个裸BV号: ", bvOnly[0][1])
		return biliLink{kindVideo, bvOnly[0][1]}
	case len(cvid) > 0:
		log.Debug("[parse] 识别到一个专栏: ", cvid[0][2])
		return biliLink{kindArticle, cvid[0][2]}
	case len(roomID) > 0:
		log.Debug("[parse] 识别到一个直播: ", roomID[0][1])
		return biliLink{kindLive, roomID[0][1]}
	default:
		return biliLink{kindNone, ""}
	}
}

// 短链解析, 跟踪一跳重定向
func deShortLink(slug string) string {
	url := "https://b23.tv/" + slug
	client := &http.Client{
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	resp, err := client.Head(url)
	if err != nil {
		log.Warn("[parse] 短链解析失败: ", err)
		return ""
	}
	defer resp.Body.Close()
	var location string
	var statusCode string
	if len(resp.Header["Location"]) > 0 {
		location = resp.Header["Location"][0]
		log.Debug("[parse] 短链解析结果: ", location)
	}
	if len(resp.Header["Bili-Status-Code"]) > 0 {
		statusCode = resp.Header["Bili-Status-Code"][0]
	}
	if statusCode == "-404" {
		log.Warn("[parse] 短链解析失败: ", statusCode, "    location: ", location)
		return ""
	}
	return location
}

// 屏蔽同一会话短时间内的相同解析
func isDuplicateParse(id string, where int) bool {
	parseHistoryMutex.Lock()
	defer parseHistoryMutex.Unlock()
	h := parseHistoryList[id]
	if time.Now().Unix()-h.TIME < cfg.SameParseInterval && where == h.WHERE {
		log.Info("[parse] 在 ", where, " 屏蔽了一次小于 ", cfg.SameParseInterval, " 秒的相同解析 ", id)
		return true
	}
	parseHistoryList[id] = parseHistory{
		WHERE: where,
		TIME:  time.Now().Unix(),
	}
	return false
}

// 提取分P参数, 返回0起的页索引
func extractPage(str string) int {
	match := regexp.MustCompile(biliLinkRegexp.PAGE).FindAllStringSubmatch(str, -1)
	if len(match) == 0 {
		return 0
	}
	p, err := strconv.Atoi(match[0][1])
	if err != nil || p < 1 {
		return 0
	}
	return p - 1
}

func checkParse(ctx *OneBot.Message) {
	message := ctx.Unescape().GetRawMessageOrMessage()

	link := biliLink{kindNone, ""}
	short := regexp.MustCompile(biliLinkRegexp.SHORT).FindAllStringSubmatch(message, -1)
	if len(short) > 0 {
		link = biliLink{kindShort, short[0][2]}
		log.Debug("[parse] 识别到", link.Kind.String(), ": ", link.ID)
		message = deShortLink(link.ID)
		if message == "" {
			return
		}
	}
	link = extractor(message)
	if link.Kind == kindNone {
		return
	}

	where := ctx.UserID
	if ctx.IsGroup() {
		where = ctx.GroupID
	}
	if isDuplicateParse(link.ID, where) {
		return
	}

	switch link.Kind {
	case kindVideo:
		handleVideo(ctx, link.ID, extractPage(message))
	case kindLive:
		handleLive(ctx, link.ID)
	case kindArticle:
		handleArticle(ctx, link.ID)
	case kindOpus:
		handleOpus(ctx, link.ID)
	case kindFavlist:
		handleFavlist(ctx, link.ID)
	}
}
