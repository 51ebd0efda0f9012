package main

import (
	"regexp"
	"testing"
)

func TestExtractor(t *testing.T) {
	tests := []struct {
		input string
		kind  linkKind
		id    string
	}{
		{"看看这个 https://www.bilibili.com/video/BV1xx411c7mD", kindVideo, "BV1xx411c7mD"},
		{"https://www.bilibili.com/video/av170001", kindVideo, "av170001"},
		{`{"url":"https:\/\/www.bilibili.com\/video\/av170001"}`, kindVideo, "av170001"},
		{"BV1xx411c7mD", kindVideo, "BV1xx411c7mD"},
		{"https://live.bilibili.com/21452505", kindLive, "21452505"},
		{"https://www.bilibili.com/read/cv12345678", kindArticle, "12345678"},
		{"https://www.bilibili.com/read/mobile/12345678", kindArticle, "12345678"},
		{"https://www.bilibili.com/opus/712529855969558563", kindOpus, "712529855969558563"},
		{"https://t.bilibili.com/712529855969558563", kindOpus, "712529855969558563"},
		{"https://space.bilibili.com/8366990/favlist?fid=1052621027", kindFavlist, "1052621027"},
		{"今天天气不错", kindNone, ""},
		{"average 一词不该触发", kindNone, ""},
		{"BV1xx411c7mD 后面带字就不算裸BV了", kindNone, ""},
	}
	for _, tt := range tests {
		got := extractor(tt.input)
		if got.Kind != tt.kind || got.ID != tt.id {
			t.Errorf("extractor(%q) = %v %q, want %v %q",
				tt.input, got.Kind, got.ID, tt.kind, tt.id)
		}
	}
}

func TestShortLinkRegexp(t *testing.T) {
	tests := []struct {
		input string
		slug  string
	}{
		{"https://b23.tv/abcDEFg", "abcDEFg"},
		{"https://bili2233.cn/abcDEFg", "abcDEFg"},
		{"https://b23.tv/BV1xx411c7mD", "BV1xx411c7mD"},
		{"https://b23.tv/av170001", "av170001"},
	}
	re := regexp.MustCompile(biliLinkRegexp.SHORT)
	for _, tt := range tests {
		match := re.FindAllStringSubmatch(tt.input, -1)
		if len(match) == 0 || match[0][2] != tt.slug {
			t.Errorf("SHORT 匹配 %q 失败, want %q", tt.input, tt.slug)
		}
	}
}

func TestExtractPage(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"https://www.bilibili.com/video/BV1xx411c7mD?p=3", 2},
		{"https://www.bilibili.com/video/BV1xx411c7mD?t=10&p=1", 0},
		{"https://www.bilibili.com/video/BV1xx411c7mD", 0},
		{"https://www.bilibili.com/video/BV1xx411c7mD?p=0", 0},
	}
	for _, tt := range tests {
		if got := extractPage(tt.input); got != tt.want {
			t.Errorf("extractPage(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestIsDuplicateParse(t *testing.T) {
	cfg.SameParseInterval = 60
	if isDuplicateParse("BVtest0000001", 10000) {
		t.Fatal("首次解析不应判重")
	}
	if !isDuplicateParse("BVtest0000001", 10000) {
		t.Error("同会话短时间内的相同解析应判重")
	}
	if isDuplicateParse("BVtest0000001", 10001) {
		t.Error("不同会话的相同解析不应判重")
	}
}
