package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestFetchToFile(t *testing.T) {
	payload := bytes.Repeat([]byte("bilibili"), 3*downloadChunkSize/8)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(payload)
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "stream.m4s")
	var last int64
	err := fetchToFile(srv.URL, path, func(written int64) {
		if written <= last {
			t.Errorf("进度应单调递增, %d -> %d", last, written)
		}
		last = written
	})
	if err != nil {
		t.Fatal(err)
	}
	if last != int64(len(payload)) {
		t.Errorf("最终进度 %d, want %d", last, len(payload))
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, payload) {
		t.Error("落盘内容与响应不一致")
	}
}

func TestFetchToFileBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "stream.m4s")
	if err := fetchToFile(srv.URL, path, nil); err == nil {
		t.Error("非 2xx 响应应返回错误")
	}
}

func TestProgressReporter(t *testing.T) {
	var got []int64
	report := progressReporter(10, func(written int64) {
		got = append(got, written)
	})
	for _, written := range []int64{3, 9, 12, 15, 25, 26, 40} {
		report(written)
	}
	want := []int64{12, 25, 40} //每跨过一个边界只上报一次
	if len(got) != len(want) {
		t.Fatalf("上报次数 %d, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("第 %d 次上报 %d, want %d", i, got[i], want[i])
		}
	}
}

func TestDownloadPairFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/ok" {
			w.Write([]byte("data"))
			return
		}
		http.Error(w, "gone", http.StatusGone)
	}))
	defer srv.Close()

	dir := t.TempDir()
	err := downloadPair(srv.URL+"/ok", srv.URL+"/bad",
		filepath.Join(dir, "v.m4s"), filepath.Join(dir, "a.m4s"))
	if err == nil {
		t.Error("任意一边失败时应返回错误")
	}
}
