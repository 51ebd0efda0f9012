package main

import (
	"errors"

	"github.com/ysmood/gson"
)

// 取流失败：没有可用的视频流或音频流
var ErrNoViableStream = errors.New("没有可用的视频流或音频流")

type streamDescriptor struct {
	URL       string
	ID        int    //清晰度代码
	Codecs    string //编码
	Bandwidth int
}

// 从 playurl 返回的 dash 字段中取出视频流与音频流列表
func streamsFromPlayurl(playurlJson gson.JSON) (videos []streamDescriptor, audios []streamDescriptor) {
	for _, v := range playurlJson.Get("dash.video").Arr() {
		videos = append(videos, streamDescriptor{
			URL:       v.Get("baseUrl").Str(),
			ID:        v.Get("id").Int(),
			Codecs:    v.Get("codecs").Str(),
			Bandwidth: v.Get("bandwidth").Int(),
		})
	}
	for _, a := range playurlJson.Get("dash.audio").Arr() {
		audios = append(audios, streamDescriptor{
			URL:       a.Get("baseUrl").Str(),
			ID:        a.Get("id").Int(),
			Codecs:    a.Get("codecs").Str(),
			Bandwidth: a.Get("bandwidth").Int(),
		})
	}
	return
}

// 各取列表中的第一条, 服务端已经按清晰度排好序
func selectBestStreams(videos, audios []streamDescriptor) (video, audio streamDescriptor, err error) {
	if len(videos) == 0 || len(audios) == 0 {
		return streamDescriptor{}, streamDescriptor{}, ErrNoViableStream
	}
	return videos[0], audios[0], nil
}
