package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/jaypipes/ghw"
	"github.com/lbsucceed/comment-analysis-bot/OneBot"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
)

// 运行状态
func checkInfo(ctx *OneBot.Message) {
	match := ctx.RegexpMustCompile(`检查身体|运行状态`)
	if len(match) == 0 || !ctx.IsToMe() {
		return
	}
	product, _ := ghw.Product()
	cpuInfo, _ := cpu.Info()
	memInfo, _ := mem.VirtualMemory()
	gpus, _ := ghw.GPU()
	cpuUtilization, _ := cpu.Percent(time.Second, false)
	diskUsage, _ := disk.Usage("/")
	s := fmt.Sprintf(`[%s]
%s
%s (%.2f%%)
%s
%s
%s
运行时长：%s`,
		cfg.NickName,
		productReport(product),
		cpuReport(cpuInfo), firstPercent(cpuUtilization),
		memReport(memInfo),
		diskReport(diskUsage),
		gpuReport(gpus),
		formatTime(bot.GetRunningTime()))
	ctx.SendMsg(s)
}

// 查不到的硬件信息降级为占位文本, 不中断状态汇报
func productReport(product *ghw.ProductInfo) string {
	if product == nil {
		return "未知主机"
	}
	return strings.ReplaceAll(product.Vendor, ", Ltd.", "") + "  " + product.Name
}

func cpuReport(cpuInfo []cpu.InfoStat) string {
	if len(cpuInfo) == 0 {
		return "未知CPU"
	}
	return strings.ReplaceAll(cpuInfo[0].ModelName, "             ", "")
}

func firstPercent(utilization []float64) float64 {
	if len(utilization) == 0 {
		return 0
	}
	return utilization[0]
}

func memReport(memInfo *mem.VirtualMemoryStat) string {
	if memInfo == nil || memInfo.Total == 0 {
		return "未知内存"
	}
	return fmt.Sprintf("%.2f / %.2f MB (%.2f%%)",
		float64(memInfo.Used)/1024.0/1024.0,
		float64(memInfo.Total)/1024.0/1024.0,
		float64(memInfo.Used)/float64(memInfo.Total)*100)
}

func diskReport(diskUsage *disk.UsageStat) string {
	if diskUsage == nil {
		return "磁盘剩余：未知"
	}
	return fmt.Sprintf("磁盘剩余：%.2f GB", float64(diskUsage.Free)/1024.0/1024.0/1024.0)
}

func gpuReport(gpus *ghw.GPUInfo) (s string) {
	if gpus == nil {
		return ""
	}
	for i, gpu := range gpus.GraphicsCards {
		if gpu.DeviceInfo == nil || gpu.DeviceInfo.Product == nil {
			continue
		}
		name := gpu.DeviceInfo.Product.Name
		if !strings.Contains(name, "NVIDIA") && !strings.Contains(name, "AMD") {
			break
		}
		if s != "" {
			s += "\n"
		}
		s += fmt.Sprint("GPU", i, ": ") + name
	}
	return
}
