package main

import (
	"fmt"
	"os"
	"os/exec"

	log "github.com/sirupsen/logrus"
)

// ffmpeg 退出码非零
type MuxError struct {
	ExitCode int
	Output   string
}

func (e *MuxError) Error() string {
	return fmt.Sprintf("ffmpeg 退出码 %d: %s", e.ExitCode, e.Output)
}

// 确认两路输入都存在且非空, 再用 ffmpeg 无转码混流
func muxToMP4(videoPath, audioPath, outputPath string) error {
	for _, p := range []string{videoPath, audioPath} {
		info, err := os.Stat(p)
		if err != nil {
			return fmt.Errorf("混流输入 %s 不可用: %w", p, err)
		}
		if info.Size() == 0 {
			return fmt.Errorf("混流输入 %s 为空文件", p)
		}
	}
	cmd := exec.Command("ffmpeg",
		"-y",
		"-i", videoPath,
		"-i", audioPath,
		"-c", "copy",
		outputPath)
	out, err := cmd.CombinedOutput()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return &MuxError{ExitCode: exitErr.ExitCode(), Output: string(out)}
		}
		return err
	}
	if err := checkMuxOutput(outputPath); err != nil {
		return err
	}
	log.Debug("[bilibili] 混流完成: ", outputPath)
	return nil
}

// 退出码为零也要确认产物落地且非空
func checkMuxOutput(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("混流输出 %s 不可用: %w", path, err)
	}
	if info.Size() == 0 {
		return fmt.Errorf("混流输出 %s 为空文件", path)
	}
	return nil
}
