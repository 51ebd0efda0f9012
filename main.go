package main

import (
	_ "embed"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/lbsucceed/comment-analysis-bot/OneBot"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	easy "github.com/t-tomalak/logrus-easy-formatter"
)

//go:embed default_config.yml
var defaultConfig string

// 插件配置, 启动时生成一次, 此后只读
type Config struct {
	NickName          string  //机器人自称
	SessData          string  //B站登录态
	SameParseInterval int64   //相同解析屏蔽间隔(秒)
	DescTruncation    int     //简介截断长度
	DurationMaximum   int     //视频时长上限(秒)
	VideoMaxMB        float64 //直接发送的体积上限(MB)
	CommentMaximum    int     //评论抓取上限
}

var (
	timeLayout = struct {
		M24  string
		M24C string
	}{
		M24:  "01/02 15:04:05",
		M24C: "01月02日15时04分05秒",
	}
	iheaders = map[string]string{
		"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,image/apng,*/*;q=0.8",
		"Accept-Language": "zh-CN,zh;q=0.9,en;q=0.8,en-US;q=0.6",
		"Origin":          "https://www.bilibili.com",
		"Referer":         "https://www.bilibili.com/",
		"User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/116.0.0.0 Safari/537.36",
	}

	mainBlock        = make(chan os.Signal, 1) //main阻塞
	customConfigPath = ""                      //自定义配置文件路径
	cfg              Config                    //插件配置
	bot              = OneBot.New()            //BOT
)

func main() {
	log.SetLevel(log.InfoLevel)
	log.SetFormatter(&easy.Formatter{
		TimestampFormat: timeLayout.M24,
		LogFormat:       "[%time%] [%lvl%] %msg%\n",
	})

	initFlag()
	initConfig()

	bot.
		OnTerminateUnexpectedly(func() {
			bot.Connect(true)
		}).
		OnMessage(func(msg *OneBot.Message) {
			handleMessage(msg)
		})

	if err := bot.Connect(true); err != nil {
		log.Fatal("[Init] bot.Connect err: ", err)
	}
	defer bot.Disconnect()

	exitJobs()
}

// 初始化启动参数
func initFlag() {
	c := flag.String("c", "", "配置文件路径, 默认为./config.yml")
	flag.Parse()
	if *c != "" {
		customConfigPath = *c
	}
}

// 初始化配置, 只在启动时执行一次
func initConfig() {
	v := viper.New()
	if customConfigPath == "" {
		log.Info("[Init] 读取默认配置文件: ./config.yml")
		v.SetConfigFile("./config.yml")
	} else {
		log.Info("[Init] 读取自定义配置文件: ", customConfigPath)
		v.SetConfigFile(customConfigPath)
	}
	if err := v.ReadInConfig(); err != nil {
		if err = os.WriteFile("./config.yml", []byte(defaultConfig), 0664); err != nil {
			log.Fatal("[Init] 尝试写入默认配置文件时发生错误: ", err)
		}
		log.Info("[Init] 缺失配置文件, 已生成默认配置, 请修改保存后重启程序")
		os.Exit(0)
	}

	log.SetLevel(log.Level(v.GetInt("main.logLevel")))

	bot.SetWsUrl(v.GetString("main.wsUrl")).
		SetLogLevel(log.Level(v.GetInt("main.logLevel")))

	if suList := v.GetStringSlice("main.superUsers"); len(suList) > 0 {
		for _, each := range suList {
			if each == "" {
				continue
			}
			su, err := strconv.Atoi(each)
			if err != nil {
				log.Fatal("[Init] main.superUsers 内容格式有误 err: ", err)
			}
			bot.AddSU(su)
		}
		log.Info("[Init] superUsers: ", bot.GetSU())
	}
	if len(bot.GetSU()) == 0 {
		log.Fatal("[Init] 请指定至少一个超级用户")
	}

	cfg = Config{
		NickName:          v.GetString("main.nickName"),
		SessData:          v.GetString("bilibili.sessdata"),
		SameParseInterval: v.GetInt64("parse.settings.sameParseInterval"),
		DescTruncation:    v.GetInt("parse.settings.descTruncationLength"),
		DurationMaximum:   v.GetInt("parse.video.durationMaximum"),
		VideoMaxMB:        v.GetFloat64("parse.video.maxMB"),
		CommentMaximum:    v.GetInt("parse.export.commentMaximum"),
	}
	if cfg.NickName == "" {
		cfg.NickName = "Bot"
	}
	if cfg.DurationMaximum <= 0 {
		cfg.DurationMaximum = 480
	}
	if cfg.VideoMaxMB <= 0 {
		cfg.VideoMaxMB = 100
	}
	if cfg.CommentMaximum <= 0 {
		cfg.CommentMaximum = 2000
	}
	bot.AddNickName(cfg.NickName)
	if cfg.SessData == "" {
		log.Warn("[Init] 未配置 bilibili.sessdata, 动态/收藏夹/AI总结解析不可用")
	}
}

func handleMessage(msg *OneBot.Message) {
	go checkParse(msg)
	go checkInfo(msg)
}

// 结束运行前报告
func exitJobs() {
	signal.Notify(mainBlock, syscall.SIGHUP, syscall.SIGINT, syscall.SIGQUIT, syscall.SIGTERM)
	<-mainBlock
	runTime := formatTime(bot.GetRunningTime())
	err := bot.Log2SU.Info("[Exit]",
		"\n此次运行时长：", runTime,
		"\n心跳包接收计数：", bot.HeartbeatCount,
		"\n重连计数：", bot.RetryCount)
	log.Info("[Exit] 此次运行时长: ", runTime)
	if err != nil {
		log.Error("[Exit] 下线消息发送失败, err: ", err)
	}
}

// 格式化秒级时间戳至 x天x小时x分钟x秒
func formatTime(timestamp int64) (format string) {
	if timestamp == 0 {
		return "0秒"
	}
	itoa := func(i int64) string {
		return strconv.Itoa(int(i))
	}
	days := timestamp / (24 * 60 * 60)
	hours := (timestamp / (60 * 60)) % 24
	minutes := (timestamp / 60) % 60
	seconds := timestamp % 60
	switch {
	case days > 0:
		format += itoa(days) + "天"
		fallthrough
	case hours > 0:
		format += itoa(hours) + "小时"
		fallthrough
	case minutes > 0:
		format += itoa(minutes) + "分钟"
		fallthrough
	default:
		if seconds != 0 {
			format += itoa(seconds) + "秒"
		}
	}
	return format
}

// 格式化秒级时长至 时:分:秒
func formatTimeSimple(timestamp int64) string {
	h := timestamp / (60 * 60)
	m := (timestamp / 60) % 60
	s := timestamp % 60
	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}
