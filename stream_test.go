package main

import (
	"errors"
	"testing"

	"github.com/ysmood/gson"
)

func TestSelectBestStreams(t *testing.T) {
	videos := []streamDescriptor{
		{URL: "http://example.com/v80", ID: 80, Codecs: "avc1.640032", Bandwidth: 2000000},
		{URL: "http://example.com/v32", ID: 32, Codecs: "avc1.64001F", Bandwidth: 800000},
	}
	audios := []streamDescriptor{
		{URL: "http://example.com/a30280", ID: 30280, Bandwidth: 320000},
		{URL: "http://example.com/a30216", ID: 30216, Bandwidth: 64000},
	}
	v, a, err := selectBestStreams(videos, audios)
	if err != nil {
		t.Fatal(err)
	}
	if v.ID != 80 || a.ID != 30280 {
		t.Errorf("应各取第一条, got 视频 %d 音频 %d", v.ID, a.ID)
	}
}

func TestSelectBestStreamsEmpty(t *testing.T) {
	videos := []streamDescriptor{{URL: "http://example.com/v", ID: 80}}
	if _, _, err := selectBestStreams(videos, nil); !errors.Is(err, ErrNoViableStream) {
		t.Errorf("缺音频流时应返回 ErrNoViableStream, got %v", err)
	}
	if _, _, err := selectBestStreams(nil, nil); !errors.Is(err, ErrNoViableStream) {
		t.Errorf("两边都缺时应返回 ErrNoViableStream, got %v", err)
	}
}

func TestStreamsFromPlayurl(t *testing.T) {
	data := gson.NewFrom(`{
		"dash": {
			"video": [
				{"baseUrl": "http://example.com/v80", "id": 80, "codecs": "avc1.640032", "bandwidth": 2000000},
				{"baseUrl": "http://example.com/v32", "id": 32, "codecs": "avc1.64001F", "bandwidth": 800000}
			],
			"audio": [
				{"baseUrl": "http://example.com/a", "id": 30280, "codecs": "mp4a.40.2", "bandwidth": 320000}
			]
		}
	}`)
	videos, audios := streamsFromPlayurl(data)
	if len(videos) != 2 || len(audios) != 1 {
		t.Fatalf("got %d 视频流 %d 音频流", len(videos), len(audios))
	}
	if videos[0].URL != "http://example.com/v80" || videos[0].Bandwidth != 2000000 {
		t.Errorf("视频流字段解析错误: %+v", videos[0])
	}
	if audios[0].ID != 30280 {
		t.Errorf("音频流字段解析错误: %+v", audios[0])
	}
}
