package main

import (
	"fmt"

	"github.com/lbsucceed/comment-analysis-bot/OneBot"
	"github.com/ysmood/gson"
)

// 动态/图文解析
func handleOpus(ctx *OneBot.Message, dynamicID string) {
	opusJson := getOpusJson(dynamicID)
	if opusJson.Get("code").Int() != 0 {
		ctx.SendMsg("动态信息获取失败惹：", opusJson.Get("message").Str())
		return
	}
	item := opusJson.Get("data.item")
	content := fmt.Sprintf("%s识别：哔哩哔哩动态\n", cfg.NickName)
	content += formatOpus(item, dynamicID)
	ctx.SendMsg(content)
}

func formatOpus(item gson.JSON, dynamicID string) string {
	var content string
	module := item.Get("modules.module_dynamic")
	author := item.Get("modules.module_author.name").Str()
	content += fmt.Sprintf("UP：%s\n", author)
	if text := module.Get("desc.text").Str(); text != "" {
		content += truncateDesc(text) + "\n"
	}
	major := module.Get("major")
	switch major.Get("type").Str() {
	case "MAJOR_TYPE_OPUS":
		if text := major.Get("opus.summary.text").Str(); text != "" {
			content += truncateDesc(text) + "\n"
		}
		for _, pic := range major.Get("opus.pics").Arr() {
			content += OneBot.ImageURL(pic.Get("url").Str())
		}
		content += "\n"
	case "MAJOR_TYPE_DRAW":
		for _, pic := range major.Get("draw.items").Arr() {
			content += OneBot.ImageURL(pic.Get("src").Str())
		}
		content += "\n"
	case "MAJOR_TYPE_ARCHIVE":
		content += fmt.Sprintf("转发视频：%s\nwww.bilibili.com/video/%s\n",
			major.Get("archive.title").Str(),
			major.Get("archive.bvid").Str())
	}
	content += "t.bilibili.com/" + dynamicID
	return content
}
