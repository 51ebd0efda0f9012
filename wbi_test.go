package main

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"testing"
)

func TestGetMixinKey(t *testing.T) {
	imgKey := "7cd084941338484aae1ad9425b84077c"
	subKey := "4932caff0ff746eab6f01bf08b70ac45"
	want := "ea1db124af3c7062474693fa704f4ff8"
	if got := getMixinKey(imgKey + subKey); got != want {
		t.Errorf("getMixinKey = %q, want %q", got, want)
	}
}

func TestWbiSign(t *testing.T) {
	imgKey := "7cd084941338484aae1ad9425b84077c"
	subKey := "4932caff0ff746eab6f01bf08b70ac45"
	params := wbiSign(map[string]string{
		"foo": "one one four",
		"bar": "五一四",
		"zab": "1919810",
	}, imgKey, subKey)

	wts := params["wts"]
	if wts == "" {
		t.Fatal("签名后应带 wts")
	}
	query := fmt.Sprintf("bar=%s&foo=one one four&wts=%s&zab=1919810", params["bar"], wts)
	h := md5.New()
	h.Write([]byte(query))
	h.Write([]byte("ea1db124af3c7062474693fa704f4ff8"))
	want := hex.EncodeToString(h.Sum(nil))
	if params["w_rid"] != want {
		t.Errorf("w_rid = %q, want %q", params["w_rid"], want)
	}
}

func TestWbiValueReplacer(t *testing.T) {
	if got := wbiValueReplacer.Replace("a!b'c(d)e*f"); got != "abcdef" {
		t.Errorf("特殊字符应被剔除, got %q", got)
	}
}
