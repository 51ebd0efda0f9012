package main

import (
	"os"
	"path/filepath"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
	"github.com/lbsucceed/comment-analysis-bot/OneBot"
	log "github.com/sirupsen/logrus"
)

// 专栏解析: 信息卡片 + 正文转 markdown 以文件发送
func handleArticle(ctx *OneBot.Message, cvid string) {
	articleJson := getArticleJson(cvid)
	if articleJson.Get("code").Int() != 0 {
		ctx.SendMsg("专栏信息获取失败惹：", articleJson.Get("message").Str())
		return
	}
	ctx.SendMsg(formatArticle(articleJson.Get("data"), cvid))

	html := getArticleHTML(cvid)
	if html == "" {
		return
	}
	markdown, err := articleToMarkdown(html)
	if err != nil || markdown == "" {
		log.Warn("[bilibili] 专栏正文提取失败: ", err)
		return
	}
	temps := &tempFiles{}
	defer temps.Cleanup()
	name := "cv" + cvid + ".md"
	path := temps.Add(filepath.Join(os.TempDir(), name))
	title := articleJson.Get("data.title").Str()
	content := "# " + title + "\n\n" + markdown
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		log.Error("[bilibili] 写入专栏 markdown 失败: ", err)
		return
	}
	if err := ctx.UploadFile(path, name); err != nil {
		log.Error("[bilibili] 上传专栏 markdown 失败: ", err)
		ctx.SendMsg("专栏正文发送失败惹")
	}
}

// 从页面中摘出正文节点转 markdown
func articleToMarkdown(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", err
	}
	body := doc.Find("#read-article-holder")
	if body.Length() == 0 {
		body = doc.Find(".article-content")
	}
	if body.Length() == 0 {
		return "", nil
	}
	inner, err := body.Html()
	if err != nil {
		return "", err
	}
	return md.NewConverter("", true, nil).ConvertString(inner)
}
