package main

import (
	"strings"
	"testing"

	"github.com/jaypipes/ghw"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
)

func TestHardwareReportsNilSafe(t *testing.T) {
	if got := productReport(nil); got != "未知主机" {
		t.Errorf("productReport(nil) = %q", got)
	}
	if got := cpuReport(nil); got != "未知CPU" {
		t.Errorf("cpuReport(nil) = %q", got)
	}
	if got := firstPercent(nil); got != 0 {
		t.Errorf("firstPercent(nil) = %v", got)
	}
	if got := memReport(nil); got != "未知内存" {
		t.Errorf("memReport(nil) = %q", got)
	}
	if got := diskReport(nil); got != "磁盘剩余：未知" {
		t.Errorf("diskReport(nil) = %q", got)
	}
	if got := gpuReport(nil); got != "" {
		t.Errorf("gpuReport(nil) = %q", got)
	}
	if got := gpuReport(&ghw.GPUInfo{}); got != "" {
		t.Errorf("无显卡时应为空, got %q", got)
	}
}

func TestHardwareReports(t *testing.T) {
	product := &ghw.ProductInfo{Vendor: "ASUSTeK COMPUTER INC., Ltd.", Name: "TUF GAMING"}
	if got := productReport(product); got != "ASUSTeK COMPUTER INC.  TUF GAMING" {
		t.Errorf("productReport = %q", got)
	}
	if got := cpuReport([]cpu.InfoStat{{ModelName: "AMD Ryzen 7 5800X"}}); got != "AMD Ryzen 7 5800X" {
		t.Errorf("cpuReport = %q", got)
	}
	if got := firstPercent([]float64{12.5}); got != 12.5 {
		t.Errorf("firstPercent = %v", got)
	}
	memInfo := &mem.VirtualMemoryStat{Total: 16 * 1024 * 1024 * 1024, Used: 8 * 1024 * 1024 * 1024}
	if got := memReport(memInfo); !strings.Contains(got, "(50.00%)") {
		t.Errorf("memReport = %q", got)
	}
	if got := diskReport(&disk.UsageStat{Free: 32 * 1024 * 1024 * 1024}); got != "磁盘剩余：32.00 GB" {
		t.Errorf("diskReport = %q", got)
	}
}
