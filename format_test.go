package main

import (
	"strings"
	"testing"
)

func TestTruncateDesc(t *testing.T) {
	cfg.DescTruncation = 8
	long := "这是一段很长很长的简介文本内容"
	got := truncateDesc(long)
	if !strings.HasSuffix(got, "......") {
		t.Errorf("超长简介应截断并带省略号, got %q", got)
	}
	if want := string([]rune(long)[:8]) + "......"; got != want {
		t.Errorf("截断结果 = %q, want %q", got, want)
	}
	if got := truncateDesc("短简介"); got != "短简介" {
		t.Errorf("未超长不应截断, got %q", got)
	}
	if got := truncateDesc("-"); got != "" {
		t.Errorf("占位简介应清空, got %q", got)
	}
}

func TestDeleteBoringCharacters(t *testing.T) {
	if got := deleteBoringCharacters("标\n题\t有\r换行"); got != "标题有换行" {
		t.Errorf("控制字符应被清除, got %q", got)
	}
}
