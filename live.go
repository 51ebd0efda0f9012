package main

import (
	"github.com/lbsucceed/comment-analysis-bot/OneBot"
)

// 直播间解析
func handleLive(ctx *OneBot.Message, roomID string) {
	roomJson := getRoomJson(roomID)
	if roomJson.Get("code").Int() != 0 {
		ctx.SendMsg("直播间信息获取失败惹：", roomJson.Get("message").Str())
		return
	}
	ctx.SendMsg(formatLive(roomJson.Get("data")))
}
