package main

import (
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v3/disk"
	log "github.com/sirupsen/logrus"
)

const downloadChunkSize = 64 * 1024

// 连接和响应头各限 60 秒, 传输本身不设总超时
var streamClient = &http.Client{
	Transport: &http.Transport{
		DialContext: (&net.Dialer{
			Timeout: 60 * time.Second,
		}).DialContext,
		ResponseHeaderTimeout: 60 * time.Second,
	},
}

// 分块下载到本地文件, onProgress 每写一块回调一次累计字节数
func fetchToFile(url string, path string, onProgress func(written int64)) error {
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return err
	}
	for k, v := range iheaders {
		req.Header.Set(k, v)
	}
	resp, err := streamClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusPartialContent {
		return fmt.Errorf("下载 %s 时返回 %s", url, resp.Status)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	var written int64
	buf := make([]byte, downloadChunkSize)
	for {
		n, err := resp.Body.Read(buf)
		if n > 0 {
			if _, werr := f.Write(buf[:n]); werr != nil {
				return werr
			}
			written += int64(n)
			if onProgress != nil {
				onProgress(written)
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// 每跨过一个 step 边界上报一次累计进度
func progressReporter(step int64, report func(written int64)) func(int64) {
	var last int64
	return func(written int64) {
		if written-last >= step {
			last = written
			report(written)
		}
	}
}

// 并发下载视频流和音频流, 任意一边失败即返回错误
func downloadPair(videoURL, audioURL, videoPath, audioPath string) error {
	var wg sync.WaitGroup
	var videoErr, audioErr error
	wg.Add(2)
	go func() {
		defer wg.Done()
		videoErr = fetchToFile(videoURL, videoPath, progressReporter(16*MB, func(written int64) {
			log.Debug("[bilibili] 视频流已下载 ", written/MB, "MB")
		}))
	}()
	go func() {
		defer wg.Done()
		audioErr = fetchToFile(audioURL, audioPath, nil)
	}()
	wg.Wait()
	if videoErr != nil {
		return fmt.Errorf("视频流下载失败: %w", videoErr)
	}
	if audioErr != nil {
		return fmt.Errorf("音频流下载失败: %w", audioErr)
	}
	return nil
}

// 临时目录剩余空间是否够放下给定大小再留一倍余量
func hasDiskHeadroom(dir string, need int64) bool {
	usage, err := disk.Usage(dir)
	if err != nil {
		log.Warn("[bilibili] 获取磁盘用量失败: ", err)
		return true
	}
	return usage.Free > uint64(need*2)
}
