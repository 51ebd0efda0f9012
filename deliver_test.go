package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSizeMB(t *testing.T) {
	path := filepath.Join(t.TempDir(), "size.bin")
	if err := os.WriteFile(path, make([]byte, 1536*KB), 0o644); err != nil {
		t.Fatal(err)
	}
	sizeMB, err := fileSizeMB(path)
	if err != nil {
		t.Fatal(err)
	}
	if sizeMB != 1.5 {
		t.Errorf("1536KB 应为 1.5MB, got %v", sizeMB)
	}
}

func TestInlineEligibleBoundary(t *testing.T) {
	cfg.VideoMaxMB = 100
	if !inlineEligible(100) {
		t.Error("恰好等于阈值应按消息内发送")
	}
	if !inlineEligible(99.99) {
		t.Error("低于阈值应按消息内发送")
	}
	if inlineEligible(100.01) {
		t.Error("超过阈值应走文件上传")
	}
}

func TestTempFilesCleanup(t *testing.T) {
	dir := t.TempDir()
	temps := &tempFiles{}
	video := temps.Add(filepath.Join(dir, "x-video.m4s"))
	output := temps.Add(filepath.Join(dir, "x-res.mp4"))
	cover := filepath.Join(dir, "x-res.jpg")
	for _, p := range []string{video, output, cover} {
		if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	temps.Cleanup()
	for _, p := range []string{video, output, cover} {
		if _, err := os.Stat(p); !os.IsNotExist(err) {
			t.Errorf("%s 应已删除", p)
		}
	}
	temps.Cleanup() //重复调用不应出错
}

func TestTempFilesCleanupMissing(t *testing.T) {
	temps := &tempFiles{}
	temps.Add(filepath.Join(t.TempDir(), "从未落地的文件.mp4"))
	temps.Cleanup() //不存在的文件直接跳过
}
