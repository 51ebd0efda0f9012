package main

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/moxcomic/ihttp"
	log "github.com/sirupsen/logrus"
	"github.com/ysmood/gson"
)

func sessCookie() string {
	if cfg.SessData == "" {
		return ""
	}
	return "SESSDATA=" + cfg.SessData
}

// 获取视频数据, id为"av<aid>"或BV号
func getVideoJson(id string) gson.JSON { //.Get("data")
	i := ihttp.New().WithUrl("https://api.bilibili.com/x/web-interface/view").
		WithHeaders(iheaders)
	if strings.HasPrefix(id, "av") {
		i = i.WithAddQuery("aid", strings.TrimPrefix(id, "av"))
	} else {
		i = i.WithAddQuery("bvid", id)
	}
	body := i.Get().
		WithError(func(err error) { log.Error("[bilibili] getVideoJson().ihttp请求错误: ", err) }).ToString()
	log.Trace("[bilibili] rawVideoJson: ", body)
	videoJson := gson.NewFrom(body)
	if videoJson.Get("code").Int() != 0 {
		log.Error("[bilibili] 视频 ", id, " 信息获取错误: ", body)
	}
	return videoJson
}

// 获取在线人数
func getOnlineJson(bvid string, cid int) gson.JSON { //.Get("data")
	body := ihttp.New().WithUrl("https://api.bilibili.com/x/player/online/total").
		WithAddQuery("bvid", bvid).WithAddQuery("cid", fmt.Sprint(cid)).
		WithHeaders(iheaders).Get().
		WithError(func(err error) { log.Error("[bilibili] getOnlineJson().ihttp请求错误: ", err) }).ToString()
	log.Trace("[bilibili] rawOnlineJson: ", body)
	return gson.NewFrom(body)
}

// 获取取流数据(DASH), 候选流在data.dash.video / data.dash.audio
func getPlayurlJson(bvid string, cid int) gson.JSON { //.Get("data")
	url := signURL(fmt.Sprintf(
		"https://api.bilibili.com/x/player/wbi/playurl?bvid=%s&cid=%d&fnver=0&fnval=16&fourk=1",
		bvid, cid))
	body := ihttp.New().WithUrl(url).
		WithHeaders(iheaders).WithCookie(sessCookie()).Get().
		WithError(func(err error) { log.Error("[bilibili] getPlayurlJson().ihttp请求错误: ", err) }).ToString()
	log.Trace("[bilibili] rawPlayurlJson: ", body)
	playurlJson := gson.NewFrom(body)
	if playurlJson.Get("code").Int() != 0 {
		log.Error("[bilibili] 视频 ", bvid, " 取流信息获取错误: ", body)
	}
	return playurlJson
}

// 获取直播间数据
func getRoomJson(roomID string) gson.JSON { //.Get("data")
	body := ihttp.New().WithUrl("https://api.live.bilibili.com/room/v1/Room/get_info").
		WithAddQuery("room_id", roomID).WithHeaders(iheaders).Get().
		WithError(func(err error) { log.Error("[bilibili] getRoomJson().ihttp请求错误: ", err) }).ToString()
	log.Trace("[bilibili] rawRoomJson: ", body)
	roomJson := gson.NewFrom(body)
	if roomJson.Get("code").Int() != 0 {
		log.Error("[bilibili] 直播间 ", roomID, " 信息获取错误: ", body)
	}
	return roomJson
}

// 获取专栏数据
func getArticleJson(cvid string) gson.JSON { //.Get("data")
	body := ihttp.New().WithUrl("https://api.bilibili.com/x/article/viewinfo").
		WithAddQuery("id", cvid).WithHeaders(iheaders).Get().
		WithError(func(err error) { log.Error("[bilibili] getArticleJson().ihttp请求错误: ", err) }).ToString()
	log.Trace("[bilibili] rawArticleJson: ", body)
	articleJson := gson.NewFrom(body)
	if articleJson.Get("code").Int() != 0 {
		log.Error("[bilibili] 专栏 cv", cvid, " 信息获取错误: ", body)
	}
	return articleJson
}

// 获取专栏正文页
func getArticleHTML(cvid string) string {
	body := ihttp.New().WithUrl("https://www.bilibili.com/read/cv"+cvid).
		WithHeaders(iheaders).WithCookie(sessCookie()).Get().
		WithError(func(err error) { log.Error("[bilibili] getArticleHTML().ihttp请求错误: ", err) }).ToString()
	return body
}

// 获取收藏夹内容
func getFavlistJson(fid string) gson.JSON { //.Get("data.medias")
	body := ihttp.New().WithUrl("https://api.bilibili.com/x/v3/fav/resource/list").
		WithAddQuery("media_id", fid).WithAddQuery("pn", "1").WithAddQuery("ps", "20").
		WithAddQuery("order", "mtime").WithAddQuery("type", "0").WithAddQuery("tid", "0").
		WithHeaders(iheaders).WithCookie(sessCookie()).Get().
		WithError(func(err error) { log.Error("[bilibili] getFavlistJson().ihttp请求错误: ", err) }).ToString()
	log.Trace("[bilibili] rawFavlistJson: ", body)
	favlistJson := gson.NewFrom(body)
	if favlistJson.Get("code").Int() != 0 {
		log.Error("[bilibili] 收藏夹 ", fid, " 信息获取错误: ", body)
	}
	return favlistJson
}

// 获取动态数据
func getOpusJson(dynamicID string) gson.JSON { //.Get("data.item")
	body := ihttp.New().WithUrl("https://api.bilibili.com/x/polymer/web-dynamic/v1/detail").
		WithAddQuery("id", dynamicID).WithHeaders(iheaders).WithCookie(sessCookie()).Get().
		WithError(func(err error) { log.Error("[bilibili] getOpusJson().ihttp请求错误: ", err) }).ToString()
	log.Trace("[bilibili] rawOpusJson: ", body)
	opusJson := gson.NewFrom(body)
	if opusJson.Get("code").Int() != 0 {
		log.Error("[bilibili] 动态 ", dynamicID, " 信息获取错误: ", body)
	}
	return opusJson
}

// 获取AI总结
func getAIConclusionJson(bvid string, cid, upMid int) gson.JSON { //.Get("data.model_result.summary")
	url := signURL(fmt.Sprintf(
		"https://api.bilibili.com/x/web-interface/view/conclusion/get?bvid=%s&cid=%d&up_mid=%d",
		bvid, cid, upMid))
	body := ihttp.New().WithUrl(url).
		WithHeaders(iheaders).WithCookie(sessCookie()).Get().
		WithError(func(err error) { log.Error("[bilibili] getAIConclusionJson().ihttp请求错误: ", err) }).ToString()
	log.Trace("[bilibili] rawAIConclusionJson: ", body)
	return gson.NewFrom(body)
}

// 获取一页评论, page从1起
func getCommentsJson(aid int, page int) gson.JSON { //.Get("data")
	body := ihttp.New().WithUrl("https://api.bilibili.com/x/v2/reply").
		WithAddQuery("type", "1").WithAddQuery("oid", fmt.Sprint(aid)).
		WithAddQuery("pn", fmt.Sprint(page)).
		WithHeaders(iheaders).WithCookie(sessCookie()).Get().
		WithError(func(err error) { log.Error("[bilibili] getCommentsJson().ihttp请求错误: ", err) }).ToString()
	log.Trace("[bilibili] rawCommentsJson: ", body)
	commentsJson := gson.NewFrom(body)
	if commentsJson.Get("code").Int() != 0 {
		log.Error("[bilibili] 视频 av", aid, " 第", page, "页评论获取错误: ", body)
	}
	return commentsJson
}

// 获取弹幕XML, 响应体带压缩
func getDanmakuXML(cid int) ([]byte, error) {
	req, err := http.NewRequest("GET",
		fmt.Sprintf("https://api.bilibili.com/x/v1/dm/list.so?oid=%d", cid), nil)
	if err != nil {
		return nil, err
	}
	for k, v := range iheaders {
		req.Header.Set(k, v)
	}
	req.Header.Set("Accept-Encoding", "gzip, deflate, br")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("弹幕接口返回 %d", resp.StatusCode)
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return decodeBody(raw, resp.Header.Get("Content-Encoding"))
}

// 按Content-Encoding解压响应体, 弹幕接口在不标注编码时也会返回raw deflate
func decodeBody(raw []byte, encoding string) ([]byte, error) {
	switch encoding {
	case "gzip":
		zr, err := gzip.NewReader(bytes.NewReader(raw))
		if err != nil {
			return nil, err
		}
		defer zr.Close()
		return io.ReadAll(zr)
	case "br":
		return io.ReadAll(brotli.NewReader(bytes.NewReader(raw)))
	case "deflate":
		fr := flate.NewReader(bytes.NewReader(raw))
		defer fr.Close()
		return io.ReadAll(fr)
	}
	if len(raw) > 0 && raw[0] != '<' { //未标注编码的deflate体
		fr := flate.NewReader(bytes.NewReader(raw))
		defer fr.Close()
		if decoded, err := io.ReadAll(fr); err == nil {
			return decoded, nil
		}
	}
	return raw, nil
}
