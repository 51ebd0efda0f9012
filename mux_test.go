package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestMuxToMP4MissingInput(t *testing.T) {
	dir := t.TempDir()
	audio := filepath.Join(dir, "a.m4s")
	if err := os.WriteFile(audio, []byte("audio"), 0o644); err != nil {
		t.Fatal(err)
	}
	err := muxToMP4(filepath.Join(dir, "不存在.m4s"), audio, filepath.Join(dir, "out.mp4"))
	if err == nil {
		t.Fatal("缺输入时应在执行 ffmpeg 前报错")
	}
	if !strings.Contains(err.Error(), "不可用") {
		t.Errorf("错误信息应指明输入不可用: %v", err)
	}
}

func TestCheckMuxOutput(t *testing.T) {
	dir := t.TempDir()
	if err := checkMuxOutput(filepath.Join(dir, "不存在.mp4")); err == nil {
		t.Error("缺失的混流产物应报错")
	}
	empty := filepath.Join(dir, "empty.mp4")
	if err := os.WriteFile(empty, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := checkMuxOutput(empty); err == nil {
		t.Error("空的混流产物应报错")
	}
	ok := filepath.Join(dir, "ok.mp4")
	if err := os.WriteFile(ok, []byte("mp4"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := checkMuxOutput(ok); err != nil {
		t.Errorf("非空产物不应报错: %v", err)
	}
}

func TestMuxToMP4EmptyInput(t *testing.T) {
	dir := t.TempDir()
	video := filepath.Join(dir, "v.m4s")
	audio := filepath.Join(dir, "a.m4s")
	if err := os.WriteFile(video, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(audio, []byte("audio"), 0o644); err != nil {
		t.Fatal(err)
	}
	err := muxToMP4(video, audio, filepath.Join(dir, "out.mp4"))
	if err == nil {
		t.Fatal("空输入时应在执行 ffmpeg 前报错")
	}
	if !strings.Contains(err.Error(), "空文件") {
		t.Errorf("错误信息应指明空文件: %v", err)
	}
}
