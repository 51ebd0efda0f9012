package main

import (
	"fmt"
	"strings"

	"github.com/lbsucceed/comment-analysis-bot/OneBot"
	"github.com/ysmood/gson"
)

var boringCharacters = strings.NewReplacer("\n", "", "\t", "", "\r", "")

// 清理标题中的控制字符
func deleteBoringCharacters(text string) string {
	return boringCharacters.Replace(text)
}

// 按配置截断简介
func truncateDesc(desc string) string {
	if desc == "" || desc == "<nil>" || desc == "-" {
		return ""
	}
	if cfg.DescTruncation > 0 && len([]rune(desc)) > cfg.DescTruncation {
		return string([]rune(desc)[:cfg.DescTruncation]) + "......"
	}
	return desc
}

// 视频信息, 不含封面
func formatVideo(videoJson gson.JSON) string {
	var content string
	aid := fmt.Sprintf("av%d\n", videoJson.Get("aid").Int())                      //av号数字
	title := fmt.Sprintf("%s\n", deleteBoringCharacters(videoJson.Get("title").Str()))
	up := fmt.Sprintf("UP：%s\n", videoJson.Get("owner.name").Str())               //up主
	view := fmt.Sprintf("%d播放  ", videoJson.Get("stat.view").Int())               //再生
	danmaku := fmt.Sprintf("%d弹幕  ", videoJson.Get("stat.danmaku").Int())         //弹幕
	reply := fmt.Sprintf("%d回复\n", videoJson.Get("stat.reply").Int())             //回复
	like := fmt.Sprintf("%d点赞  ", videoJson.Get("stat.like").Int())               //点赞
	coin := fmt.Sprintf("%d投币  ", videoJson.Get("stat.coin").Int())               //投币
	favor := fmt.Sprintf("%d收藏\n", videoJson.Get("stat.favorite").Int())          //收藏
	link := fmt.Sprintf("www.bilibili.com/video/%s", videoJson.Get("bvid").Str()) //链接
	content += aid + title + up
	if desc := truncateDesc(videoJson.Get("desc").Str()); desc != "" {
		content += fmt.Sprintf("📝 简介：%s\n", desc)
	}
	content += view + danmaku + reply + like + coin + favor + link
	return content
}

// 在线人数
func formatOnline(onlineJson gson.JSON) string {
	total := onlineJson.Get("total").Str()
	count := onlineJson.Get("count").Str()
	if total == "" {
		return ""
	}
	return fmt.Sprintf("🏄‍♂️ 总共 %s 人在观看，%s 人在网页端观看", total, count)
}

// 直播间信息
func formatLive(roomJson gson.JSON) string {
	var content string
	area := fmt.Sprintf("%s - %s\n", //分区
		roomJson.Get("parent_area_name").Str(),
		roomJson.Get("area_name").Str())
	cover := OneBot.ImageURL(roomJson.Get("user_cover").Str())            //封面
	keyframe := OneBot.ImageURL(roomJson.Get("keyframe").Str()) + "\n"    //关键帧
	title := fmt.Sprintf("%s\n", roomJson.Get("title").Str())         //房间名
	link := fmt.Sprintf("live.bilibili.com/%d", roomJson.Get("room_id").Int())
	status := "" //房间状态:   0: "未开播"  1: "直播中 " 2: "轮播中"
	switch roomJson.Get("live_status").Int() {
	case 0:
		status = "（未开播）\n"
	case 1:
		status = "（直播中）\n"
	case 2:
		status = "（轮播中）\n"
	}
	content += cover + keyframe
	content += fmt.Sprintf("%s识别：哔哩哔哩直播%s", cfg.NickName, status)
	content += title + area + link
	return content
}

// 专栏信息
func formatArticle(articleJson gson.JSON, cvid string) string { //文章信息拿不到自己的cv号
	var content string
	image := "" //头图
	for i := 0; i < len(articleJson.Get("image_urls").Arr()); i++ {
		image += OneBot.ImageURL(articleJson.Get(fmt.Sprintf("image_urls.%d", i)).Str())
		if i == len(articleJson.Get("image_urls").Arr())-1 {
			image += "\n"
		}
	}
	cv := fmt.Sprintf("cv%s\n", cvid)
	title := fmt.Sprintf("%s\n", articleJson.Get("title").Str())            //标题
	author := fmt.Sprintf("作者：%s\n", articleJson.Get("author_name").Str())  //作者
	view := fmt.Sprintf("%d阅读  ", articleJson.Get("stats.view").Int())      //阅读
	reply := fmt.Sprintf("%d回复  ", articleJson.Get("stats.reply").Int())    //回复
	share := fmt.Sprintf("%d分享\n", articleJson.Get("stats.share").Int())    //分享
	like := fmt.Sprintf("%d点赞  ", articleJson.Get("stats.like").Int())      //点赞
	coin := fmt.Sprintf("%d投币  ", articleJson.Get("stats.coin").Int())      //投币
	favor := fmt.Sprintf("%d收藏\n", articleJson.Get("stats.favorite").Int()) //收藏
	link := fmt.Sprintf("www.bilibili.com/read/cv%s", cvid)                 //链接
	content += image + cv + title + author + view + reply + share + like + coin + favor + link
	return content
}

// 收藏夹单条内容
func formatFavMedia(media gson.JSON) string {
	return OneBot.ImageURL(media.Get("cover").Str()) +
		fmt.Sprintf("\n🧉 标题：%s\n📝 简介：%s\n🔗 链接：www.bilibili.com/video/%s",
			media.Get("title").Str(),
			truncateDesc(media.Get("intro").Str()),
			media.Get("bvid").Str())
}
