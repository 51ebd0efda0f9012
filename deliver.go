package main

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/lbsucceed/comment-analysis-bot/OneBot"
	log "github.com/sirupsen/logrus"
)

const (
	B  = 1
	KB = 1024 * B
	MB = 1024 * KB
)

// 一次解析过程中产生的临时文件, Cleanup 可重复调用
type tempFiles struct {
	mu    sync.Mutex
	paths []string
}

func (t *tempFiles) Add(path string) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.paths = append(t.paths, path)
	return path
}

// 逐个删除已登记的文件, 不存在的跳过, 同时清理同名 jpg 封面
func (t *tempFiles) Cleanup() {
	t.mu.Lock()
	paths := t.paths
	t.paths = nil
	t.mu.Unlock()
	for _, p := range paths {
		removeIfExists(p)
		if strings.HasSuffix(p, ".mp4") { //发送视频时部分实现会落一张同名封面
			removeIfExists(strings.TrimSuffix(p, ".mp4") + ".jpg")
		}
	}
}

func removeIfExists(path string) {
	if _, err := os.Stat(path); err == nil {
		if err := os.Remove(path); err != nil {
			log.Warn("[bilibili] 删除临时文件 ", path, " 失败: ", err)
		}
	}
}

// 文件大小, MB, 保留两位小数
func fileSizeMB(path string) (float64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return math.Round(float64(info.Size())/MB*100) / 100, nil
}

// 等于阈值时仍然走消息内发送
func inlineEligible(sizeMB float64) bool {
	return sizeMB <= cfg.VideoMaxMB
}

// 小于等于阈值时作为消息内视频发送, 超过则走群文件上传
// src 为远端地址时先落地再判断, 任何失败只通知, 不向上传播
func autoSendVideo(ctx *OneBot.Message, src string, name string, temps *tempFiles) {
	path := src
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		path = temps.Add(filepath.Join(os.TempDir(), name))
		if err := fetchToFile(src, path, nil); err != nil {
			log.Error("[bilibili] 下载视频失败: ", err)
			ctx.SendMsg("视频下载失败惹")
			return
		}
	}
	sizeMB, err := fileSizeMB(path)
	if err != nil {
		log.Error("[bilibili] 读取视频大小失败: ", err)
		ctx.SendMsg("视频发送失败惹")
		return
	}
	log.Info("[bilibili] 视频大小: ", sizeMB, "MB")
	if inlineEligible(sizeMB) {
		ctx.SendMsg(OneBot.VideoLocal(path))
		return
	}
	ctx.SendMsg(fmt.Sprintf("视频大小为 %.2fMB，超过了 %.0fMB，将以文件形式发送", sizeMB, cfg.VideoMaxMB))
	if err := ctx.UploadFile(path, name); err != nil {
		log.Error("[bilibili] 上传视频文件失败: ", err)
		ctx.SendMsg("视频文件上传失败惹")
	}
}
