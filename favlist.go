package main

import (
	"fmt"

	"github.com/lbsucceed/comment-analysis-bot/OneBot"
)

// 收藏夹内容条数上限, 超出部分只提示
const favlistMaximum = 10

// 收藏夹解析, 以合并转发发送前若干条内容
func handleFavlist(ctx *OneBot.Message, fid string) {
	favlistJson := getFavlistJson(fid)
	if favlistJson.Get("code").Int() != 0 {
		ctx.SendMsg("收藏夹信息获取失败惹：", favlistJson.Get("message").Str())
		return
	}
	info := favlistJson.Get("data.info")
	medias := favlistJson.Get("data.medias").Arr()
	head := fmt.Sprintf("%s识别：哔哩哔哩收藏夹\n%s\n创建者：%s\n共 %d 个内容",
		cfg.NickName,
		info.Get("title").Str(),
		info.Get("upper.name").Str(),
		info.Get("media_count").Int())
	nodes := OneBot.FastNewForwardMsg(cfg.NickName, bot.GetSelfID(), head)
	for i, media := range medias {
		if i >= favlistMaximum {
			nodes = OneBot.AppendForwardMsg(nodes,
				OneBot.NewForwardNode(cfg.NickName, bot.GetSelfID(),
					fmt.Sprintf("后面还有 %d 条就不展示了", len(medias)-favlistMaximum), 0))
			break
		}
		nodes = OneBot.AppendForwardMsg(nodes,
			OneBot.NewForwardNode(cfg.NickName, bot.GetSelfID(), formatFavMedia(media), 0))
	}
	if err := ctx.SendForwardMsg(nodes); err != nil {
		ctx.SendMsg("收藏夹内容发送失败惹")
	}
}
