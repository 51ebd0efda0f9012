package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"github.com/lbsucceed/comment-analysis-bot/OneBot"
	log "github.com/sirupsen/logrus"
	"github.com/ysmood/gson"
)

// 视频解析入口: 信息卡片, 弹幕评论导出, 视频下载发送, AI 总结
func handleVideo(ctx *OneBot.Message, id string, page int) {
	videoJson := getVideoJson(id)
	if videoJson.Get("code").Int() != 0 {
		ctx.SendMsg("视频信息获取失败惹：", videoJson.Get("message").Str())
		return
	}
	data := videoJson.Get("data")
	bvid := data.Get("bvid").Str()
	aid := data.Get("aid").Int()

	cid, duration := selectVideoPage(data, page)

	content := OneBot.ImageURL(data.Get("pic").Str()) + "\n"
	content += fmt.Sprintf("%s识别：哔哩哔哩视频\n", cfg.NickName)
	content += formatVideo(data)
	if onlineJson := getOnlineJson(bvid, cid); onlineJson.Get("code").Int() == 0 {
		if online := formatOnline(onlineJson.Get("data")); online != "" {
			content += "\n" + online
		}
	}
	ctx.SendMsg(content)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		exportComments(ctx, bvid, aid, cid)
	}()

	sendVideoMedia(ctx, bvid, cid, duration)
	wg.Wait()

	sendAIConclusion(ctx, bvid, cid, data.Get("owner.mid").Int())
}

// 选择分P对应的 cid 和时长, 没有分P信息时回落到总时长
func selectVideoPage(data gson.JSON, page int) (cid int, duration int) {
	cid = data.Get("cid").Int()
	duration = data.Get("duration").Int()
	pages := data.Get("pages").Arr()
	if len(pages) == 0 {
		return
	}
	if page < 0 || page >= len(pages) {
		page = 0 //超出分P范围时回落到第一P
	}
	return pages[page].Get("cid").Int(), pages[page].Get("duration").Int()
}

// 取流下载混流并发送, 超长视频只提示不下载
func sendVideoMedia(ctx *OneBot.Message, bvid string, cid int, duration int) {
	if duration > cfg.DurationMaximum {
		ctx.SendMsg(fmt.Sprintf("视频时长 %s 超过了 %s，不发送视频",
			formatTimeSimple(int64(duration)), formatTimeSimple(int64(cfg.DurationMaximum))))
		return
	}
	playurlJson := getPlayurlJson(bvid, cid)
	if playurlJson.Get("code").Int() != 0 {
		ctx.SendMsg("视频流信息获取失败惹：", playurlJson.Get("message").Str())
		return
	}
	videos, audios := streamsFromPlayurl(playurlJson.Get("data"))
	video, audio, err := selectBestStreams(videos, audios)
	if err != nil {
		ctx.SendMsg("视频流信息获取失败惹：", err)
		return
	}
	log.Info("[bilibili] ", bvid, " 选择视频流 ", video.ID, "(", video.Codecs, ") 音频流 ", audio.ID)

	estimate := int64((video.Bandwidth + audio.Bandwidth) / 8 * duration)
	if !hasDiskHeadroom(os.TempDir(), estimate) {
		ctx.SendMsg("磁盘空间不足，不发送视频")
		return
	}

	temps := &tempFiles{}
	defer temps.Cleanup()
	token := fmt.Sprintf("%s-%s", bvid, uuid.NewString())
	videoPath := temps.Add(filepath.Join(os.TempDir(), token+"-video.m4s"))
	audioPath := temps.Add(filepath.Join(os.TempDir(), token+"-audio.m4s"))
	outputPath := temps.Add(filepath.Join(os.TempDir(), token+"-res.mp4"))

	if err := downloadPair(video.URL, audio.URL, videoPath, audioPath); err != nil {
		log.Error("[bilibili] ", err)
		ctx.SendMsg("视频下载失败惹")
		return
	}
	if err := muxToMP4(videoPath, audioPath, outputPath); err != nil {
		log.Error("[bilibili] 混流失败: ", err)
		ctx.SendMsg("视频混流失败惹")
		return
	}
	autoSendVideo(ctx, outputPath, bvid+".mp4", temps)
}

// AI 视频总结, 无总结时静默跳过
func sendAIConclusion(ctx *OneBot.Message, bvid string, cid int, upMid int) {
	conclusionJson := getAIConclusionJson(bvid, cid, upMid)
	if conclusionJson.Get("code").Int() != 0 {
		return
	}
	modelResult := conclusionJson.Get("data.model_result")
	summary := modelResult.Get("summary").Str()
	if summary == "" {
		return
	}
	content := "🤖 AI总结：" + summary
	for _, outline := range modelResult.Get("outline").Arr() {
		content += fmt.Sprintf("\n\n● %s", outline.Get("title").Str())
		for _, part := range outline.Get("part_outline").Arr() {
			content += fmt.Sprintf("\n%s  %s",
				formatTimeSimple(int64(part.Get("timestamp").Int())),
				part.Get("content").Str())
		}
	}
	ctx.SendForwardMsg(OneBot.FastNewForwardMsg(
		cfg.NickName, bot.GetSelfID(), content))
}

