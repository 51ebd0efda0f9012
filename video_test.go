package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/lbsucceed/comment-analysis-bot/OneBot"
	"github.com/ysmood/gson"
)

func TestSelectVideoPage(t *testing.T) {
	data := gson.NewFrom(`{
		"cid": 111, "duration": 300,
		"pages": [
			{"cid": 222, "duration": 100},
			{"cid": 333, "duration": 200}
		]
	}`)
	tests := []struct {
		page     int
		cid      int
		duration int
	}{
		{0, 222, 100},
		{1, 333, 200},
		{5, 222, 100}, //超出范围回落到第一P
		{-1, 222, 100},
	}
	for _, tt := range tests {
		cid, duration := selectVideoPage(data, tt.page)
		if cid != tt.cid || duration != tt.duration {
			t.Errorf("selectVideoPage(%d) = %d/%d, want %d/%d",
				tt.page, cid, duration, tt.cid, tt.duration)
		}
	}
}

func TestSelectVideoPageWithoutPages(t *testing.T) {
	for _, body := range []string{
		`{"cid": 111, "duration": 300}`,
		`{"cid": 111, "duration": 300, "pages": []}`,
	} {
		cid, duration := selectVideoPage(gson.NewFrom(body), 2)
		if cid != 111 || duration != 300 {
			t.Errorf("无分P时应回落到总时长, got %d/%d", cid, duration)
		}
	}
}

func TestSendVideoMediaDurationGate(t *testing.T) {
	cfg.DurationMaximum = 480
	ctx := &OneBot.Message{} //发送无目标, 静默失败即可
	sendVideoMedia(ctx, "BVtestgate001", 1, 700)
	matches, err := filepath.Glob(filepath.Join(os.TempDir(), "BVtestgate001-*"))
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 0 {
		t.Errorf("超长视频不应落任何临时文件: %v", matches)
	}
}
