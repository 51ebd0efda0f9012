package main

import (
	"encoding/csv"
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/lbsucceed/comment-analysis-bot/OneBot"
	log "github.com/sirupsen/logrus"
)

// 导出弹幕和评论到 csv 并以群文件发送, 失败只道歉不中断解析
func exportComments(ctx *OneBot.Message, bvid string, aid int, cid int) {
	danmaku, err := getDanmakuList(cid)
	if err != nil {
		log.Error("[bilibili] 弹幕获取失败: ", err)
	}
	comments := getCommentsList(aid)
	if len(danmaku) == 0 && len(comments) == 0 {
		ctx.SendMsg("弹幕和评论都没获取到，导出失败惹")
		return
	}
	temps := &tempFiles{}
	defer temps.Cleanup()
	path := temps.Add(filepath.Join(os.TempDir(), bvid+"_comments.csv"))
	if err := writeCommentCSV(path, danmaku, comments); err != nil {
		log.Error("[bilibili] 导出 csv 失败: ", err)
		ctx.SendMsg("弹幕评论导出失败惹")
		return
	}
	if err := ctx.UploadFile(path, bvid+"_comments.csv"); err != nil {
		log.Error("[bilibili] 上传 csv 失败: ", err)
		ctx.SendMsg("弹幕评论文件上传失败惹")
	}
}

type danmakuDoc struct {
	Items []struct {
		Text string `xml:",chardata"`
	} `xml:"d"`
}

// 全量弹幕列表
func getDanmakuList(cid int) ([]string, error) {
	raw, err := getDanmakuXML(cid)
	if err != nil {
		return nil, err
	}
	var doc danmakuDoc
	if err := xml.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	list := make([]string, 0, len(doc.Items))
	for _, d := range doc.Items {
		list = append(list, d.Text)
	}
	return list, nil
}

// 逐页拉取评论及其楼中楼, 到达上限或翻完为止
func getCommentsList(aid int) []string {
	var list []string
	for page := 1; len(list) < cfg.CommentMaximum; page++ {
		commentsJson := getCommentsJson(aid, page)
		if commentsJson.Get("code").Int() != 0 {
			log.Warn("[bilibili] 评论获取失败: ", commentsJson.Get("message").Str())
			break
		}
		replies := commentsJson.Get("data.replies").Arr()
		if len(replies) == 0 {
			break
		}
		for _, reply := range replies {
			list = append(list, fmt.Sprintf("%s:%s,点赞：%d",
				reply.Get("member.uname").Str(),
				reply.Get("content.message").Str(),
				reply.Get("like").Int()))
			for _, sub := range reply.Get("replies").Arr() {
				list = append(list, fmt.Sprintf("回复@%s: %s:%s,点赞：%d",
					reply.Get("member.uname").Str(),
					sub.Get("member.uname").Str(),
					sub.Get("content.message").Str(),
					sub.Get("like").Int()))
			}
		}
		time.Sleep(time.Millisecond * 300) //翻页间隔
	}
	if len(list) > cfg.CommentMaximum {
		list = list[:cfg.CommentMaximum]
	}
	return list
}

// 两列各自独立排布, 短的一列补空, 带 BOM 方便 excel 识别
func writeCommentCSV(path string, danmaku []string, comments []string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return err
	}
	w := csv.NewWriter(f)
	if err := w.Write([]string{"弹幕", "评论"}); err != nil {
		return err
	}
	rows := len(danmaku)
	if len(comments) > rows {
		rows = len(comments)
	}
	for i := 0; i < rows; i++ {
		var d, c string
		if i < len(danmaku) {
			d = danmaku[i]
		}
		if i < len(comments) {
			c = comments[i]
		}
		if err := w.Write([]string{d, c}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
