package OneBot

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	easy "github.com/t-tomalak/logrus-easy-formatter"
	"github.com/ysmood/gson"
)

// OneBot v11 正向ws适配器, 只保留消息收发、合并转发、文件上传
type Bot struct {
	wsUrl string

	conn       *websocket.Conn
	writeMutex sync.Mutex //gorilla不允许并发写

	selfID     int
	superUsers []int
	nickName   []string

	StartTime      int64 //此次上线时间
	RetryCount     int   //重连计数
	HeartbeatCount int   //心跳包接收计数

	isExpectedTermination bool

	apiTimeout time.Duration
	echoMutex  sync.Mutex
	echoWait   map[string]chan *ApiResp

	On struct {
		Message               func(*Message) //消息
		TerminateUnexpectedly func()         //预料之外的断开
	}

	Log2SU *log2SU //向超级用户发送通知

	log *logrus.Logger
}

// API响应, 以echo关联调用
type ApiResp struct {
	Echo    string         `json:"echo"`
	Status  string         `json:"status"`
	RetCode int            `json:"retcode"`
	Msg     string         `json:"msg"`
	Wording string         `json:"wording"`
	Data    map[string]any `json:"data"`
}

// 消息事件
type Message struct {
	Bot *Bot

	Time int `json:"time"`

	//"private"私聊消息, "group"群消息
	MessageType string `json:"message_type"`
	SubType     string `json:"sub_type"`

	MessageID int `json:"message_id"`
	UserID    int `json:"user_id"`
	GroupID   int `json:"group_id"`

	Message    any    `json:"message"`
	RawMessage string `json:"raw_message"`

	Sender struct {
		UserID   int    `json:"user_id"`
		NickName string `json:"nickname"`
		CardName string `json:"card"`
		Role     string `json:"role"`
	} `json:"sender"`
}

type ForwardMsg []ForwardNode //可以直接发送的合并转发消息
type ForwardNode map[string]any

var (
	errUnknownMsgType = errors.New("UNKNOWN MESSAGE TYPE")
	errNoConnect      = errors.New("DID NOT CONNECT TO ONEBOT")
	errApiTimeout     = errors.New("API CALLING TIMEOUT")
	errNoSU           = errors.New("AT LEAST ONE SU IS REQUIRED")

	unescape = strings.NewReplacer( //反转义还原CQ码
		"&amp;", "&", "&#44;", ",", "&#91;", "[", "&#93;", "]")
)

type log2SU struct {
	bot *Bot
}

func (l *log2SU) Info(msg ...any) (err error) {
	return l.bot.sendToSU(fmt.Sprint("[Info] ", fmt.Sprint(msg...)))
}
func (l *log2SU) Warn(msg ...any) (err error) {
	return l.bot.sendToSU(fmt.Sprint("[Warn] ", fmt.Sprint(msg...)))
}
func (l *log2SU) Error(msg ...any) (err error) {
	return l.bot.sendToSU(fmt.Sprint("[Error] ", fmt.Sprint(msg...)))
}

func (bot *Bot) sendToSU(message string) (err error) {
	for _, su := range bot.superUsers {
		if e := bot.SendPrivateMsg(su, message); e != nil {
			err = e
		}
	}
	return
}

// 新建
func New() *Bot {
	bot := &Bot{
		apiTimeout: time.Second * 15,
		echoWait:   make(map[string]chan *ApiResp),
	}
	bot.log = logrus.New()
	bot.log.SetLevel(logrus.InfoLevel)
	bot.log.SetFormatter(&easy.Formatter{
		TimestampFormat: "01/02 15:04:05",
		LogFormat:       "[%time%] [%lvl%] %msg%\n",
	})
	bot.Log2SU = &log2SU{bot: bot}
	return bot
}

func (bot *Bot) SetWsUrl(url string) *Bot {
	if !strings.Contains(url, "://") {
		url = "ws://" + url
	}
	bot.wsUrl = url
	return bot
}

func (bot *Bot) SetLogLevel(level logrus.Level) *Bot {
	bot.log.SetLevel(level)
	return bot
}

func (bot *Bot) AddSU(userIDs ...int) *Bot {
	bot.superUsers = append(bot.superUsers, userIDs...)
	return bot
}

func (bot *Bot) GetSU() []int {
	return bot.superUsers
}

func (bot *Bot) AddNickName(names ...string) *Bot {
	bot.nickName = append(bot.nickName, names...)
	return bot
}

func (bot *Bot) GetNickName() []string {
	return bot.nickName
}

func (bot *Bot) GetSelfID() int {
	return bot.selfID
}

func (bot *Bot) GetRunningTime() int64 {
	return time.Now().Unix() - bot.StartTime
}

func (bot *Bot) OnMessage(f func(*Message)) *Bot {
	bot.On.Message = f
	return bot
}

func (bot *Bot) OnTerminateUnexpectedly(f func()) *Bot {
	bot.On.TerminateUnexpectedly = f
	return bot
}

// 断开连接
func (bot *Bot) Disconnect() {
	bot.isExpectedTermination = true
	if bot.conn != nil {
		bot.conn.Close()
	}
}

/*
建立ws连接

autoRetry 为 true 时失败无限重试 (每5s)
*/
func (bot *Bot) Connect(autoRetry bool) (err error) {
	if bot.wsUrl == "" {
		return errors.New("EMPTY WEBSOCKET URL")
	}
	if len(bot.superUsers) == 0 {
		return errNoSU
	}
	bot.isExpectedTermination = false
	for {
		c, _, err := websocket.DefaultDialer.Dial(bot.wsUrl, nil)
		if err != nil {
			bot.log.Error("[OneBot] 建立ws连接失败, err: ", err)
			if !autoRetry {
				return err
			}
			bot.RetryCount++
			bot.log.Warn("[OneBot] 将在 5 秒后重试 (", bot.RetryCount, ")")
			time.Sleep(time.Second * 5)
			continue
		}
		bot.conn = c
		break
	}
	bot.log.Info("[OneBot] 建立ws连接成功")
	bot.StartTime = time.Now().Unix()
	go bot.recvLoop()
	bot.initSelfInfo()
	return nil
}

func (bot *Bot) initSelfInfo() {
	selfID, selfNickName, err := bot.GetLoginInfo()
	if err != nil {
		bot.log.Error("[OneBot] 初始化账号信息失败, err: ", err)
		return
	}
	bot.log.Info("[OneBot] 获取账号信息: ", selfNickName, "(", selfID, ")")
	bot.selfID = selfID
	bot.AddNickName(selfNickName) //用来识别假at
}

func (bot *Bot) recvLoop() {
	for {
		msgType, data, err := bot.conn.ReadMessage()
		if err != nil {
			if !bot.isExpectedTermination {
				bot.log.Error("[OneBot] ws连接意外终止, err: ", err)
				if bot.On.TerminateUnexpectedly != nil {
					go bot.On.TerminateUnexpectedly()
				}
			}
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}
		go bot.handleRecv(data)
	}
}

func (bot *Bot) handleRecv(raw []byte) {
	bot.log.Trace("[OneBot] rawRecv: ", string(raw))

	apiResp := &ApiResp{}
	if err := json.Unmarshal(raw, apiResp); err != nil {
		bot.log.Warn("[OneBot] 反序列化出错(ApiResp), 跳过处理, err: ", err,
			"\n    raw: ", string(raw))
		return
	}
	if apiResp.Echo != "" { //规定Api调用必须有echo, 非空即为调用了Api
		bot.echoMutex.Lock()
		ch := bot.echoWait[apiResp.Echo]
		delete(bot.echoWait, apiResp.Echo)
		bot.echoMutex.Unlock()
		if ch != nil {
			ch <- apiResp
		}
		return
	}

	postType := gson.New(raw).Get("post_type").Str()
	switch postType {
	case "message":
		msg := &Message{Bot: bot}
		if err := json.Unmarshal(raw, msg); err != nil {
			bot.log.Warn("[OneBot] 反序列化出错(Message), 跳过处理, err: ", err,
				"\n    raw: ", string(raw))
			return
		}
		switch msg.MessageType {
		case "private":
			bot.log.Info("[OneBot] 收到 ", msg.Sender.NickName,
				"(", msg.UserID, ") 的消息(", msg.MessageID, "): ", msg.RawMessage)
		case "group":
			bot.log.Info("[OneBot] 在 ", msg.GroupID, " 收到 ",
				msg.GetCardOrNickname(), "(", msg.UserID, ") 的群聊消息(",
				msg.MessageID, "): ", msg.RawMessage)
		}
		if bot.On.Message != nil && msg.UserID != bot.selfID {
			go bot.On.Message(msg)
		}
	case "meta_event":
		if gson.New(raw).Get("meta_event_type").Str() == "heartbeat" {
			bot.HeartbeatCount++
		}
	}
}

func genEcho(prefix string) string {
	return prefix + "_" + strconv.FormatInt(time.Now().UnixNano(), 10)
}

// 调用API并等待echo响应
func (bot *Bot) callApi(action string, params map[string]any) (resp *ApiResp, err error) {
	if bot.conn == nil {
		return nil, errNoConnect
	}
	echo := genEcho(action)
	post, err := json.Marshal(map[string]any{
		"action": action,
		"params": params,
		"echo":   echo,
	})
	if err != nil {
		return nil, err
	}

	ch := make(chan *ApiResp, 1)
	bot.echoMutex.Lock()
	bot.echoWait[echo] = ch
	bot.echoMutex.Unlock()

	bot.log.Trace("[OneBot] rawPost: ", string(post))
	bot.writeMutex.Lock()
	err = bot.conn.WriteMessage(websocket.TextMessage, post)
	bot.writeMutex.Unlock()
	if err != nil {
		bot.echoMutex.Lock()
		delete(bot.echoWait, echo)
		bot.echoMutex.Unlock()
		return nil, err
	}

	select {
	case resp = <-ch:
	case <-time.After(bot.apiTimeout):
		bot.echoMutex.Lock()
		delete(bot.echoWait, echo)
		bot.echoMutex.Unlock()
		bot.log.Error("[OneBot] Api ", action, " 调用超时")
		return nil, errApiTimeout
	}

	switch {
	case resp.RetCode == 0 && resp.Status == "ok":
		bot.log.Debug("[OneBot] Api ", action, " 调用成功")
	case resp.RetCode == 1 && resp.Status == "async":
		bot.log.Debug("[OneBot] Api ", action, " 已经提交异步处理")
	default:
		err = errors.New("Api " + action + " 调用失败: " + resp.Msg + " " + resp.Wording)
		bot.log.Error("[OneBot] ", err)
	}
	return
}

// 获取登录号信息
func (bot *Bot) GetLoginInfo() (userID int, nickname string, err error) {
	resp, err := bot.callApi("get_login_info", nil)
	if err != nil {
		return 0, "", err
	}
	data := gson.New(resp.Data)
	return data.Get("user_id").Int(), data.Get("nickname").Str(), nil
}

// 发送私聊消息
func (bot *Bot) SendPrivateMsg(userID int, message any) (err error) {
	_, err = bot.callApi("send_private_msg", map[string]any{
		"user_id": userID,
		"message": message,
	})
	return
}

// 发送群聊消息
func (bot *Bot) SendGroupMsg(groupID int, message any) (err error) {
	_, err = bot.callApi("send_group_msg", map[string]any{
		"group_id": groupID,
		"message":  message,
	})
	return
}

// 发送私聊合并转发消息
func (bot *Bot) SendPrivateForwardMsg(userID int, nodes ForwardMsg) (err error) {
	_, err = bot.callApi("send_private_forward_msg", map[string]any{
		"user_id":  userID,
		"messages": nodes,
	})
	return
}

// 发送群聊合并转发消息
func (bot *Bot) SendGroupForwardMsg(groupID int, nodes ForwardMsg) (err error) {
	_, err = bot.callApi("send_group_forward_msg", map[string]any{
		"group_id": groupID,
		"messages": nodes,
	})
	return
}

// 上传私聊文件, path需要为绝对路径
func (bot *Bot) UploadPrivateFile(userID int, path, name string) (err error) {
	_, err = bot.callApi("upload_private_file", map[string]any{
		"user_id": userID,
		"file":    path,
		"name":    name,
	})
	return
}

// 上传群文件, path需要为绝对路径
func (bot *Bot) UploadGroupFile(groupID int, path, name string) (err error) {
	_, err = bot.callApi("upload_group_file", map[string]any{
		"group_id": groupID,
		"file":     path,
		"name":     name,
	})
	return
}

/*
创建合并转发消息节点

timestamp 为0时使用当前时间
*/
func NewForwardNode(name string, uin int, content string, timestamp int64) ForwardNode {
	if timestamp == 0 {
		timestamp = time.Now().Unix()
	}
	return ForwardNode{
		"type": "node",
		"data": map[string]any{
			"name":    name,
			"uin":     uin,
			"content": content,
			"time":    timestamp,
		},
	}
}

// 对合并转发消息追加消息节点, 塞个nil可以当NewForwardMsg()用
func AppendForwardMsg(forwardMsg ForwardMsg, nodes ...ForwardNode) ForwardMsg {
	return append(forwardMsg, nodes...)
}

// 合并多个消息节点, 创建合并转发消息
func NewForwardMsg(nodes ...ForwardNode) ForwardMsg {
	return AppendForwardMsg(nil, nodes...)
}

// 快速创建合并转发消息, 所有content沿用同一发送者
func FastNewForwardMsg(name string, uin int, content ...string) ForwardMsg {
	var forwardMsg ForwardMsg
	for _, c := range content {
		forwardMsg = AppendForwardMsg(forwardMsg, NewForwardNode(name, uin, c, 0))
	}
	return forwardMsg
}

// fmt.Sprintf("[CQ:image,file=%s]", url)
func ImageURL(url string) string {
	return "[CQ:image,file=" + url + "]"
}

// 引用本地视频文件的CQ码
func VideoLocal(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return "[CQ:video,file=file://" + abs + "]"
}

// fmt.Sprintf("[CQ:reply,id=%d]", id)
func Reply(id int) string {
	return fmt.Sprintf("[CQ:reply,id=%d]", id)
}

// 某些途径获取到的消息体可能不存在raw_message字段
func (ctx *Message) GetRawMessageOrMessage() string {
	if ctx.RawMessage != "" {
		return ctx.RawMessage
	}
	return fmt.Sprint(ctx.Message)
}

// return regexp.MustCompile(exp).FindAllStringSubmatch(..., -1)
func (ctx *Message) RegexpMustCompile(exp string) [][]string {
	return regexp.MustCompile(exp).FindAllStringSubmatch(ctx.GetRawMessageOrMessage(), -1)
}

func (ctx *Message) IsGroup() bool {
	return ctx.MessageType == "group"
}

func (ctx *Message) IsPrivate() bool {
	return ctx.MessageType == "private"
}

func (ctx *Message) IsSU() bool {
	for _, su := range ctx.Bot.superUsers {
		if ctx.UserID == su {
			return true
		}
	}
	return false
}

// 是否在at机器人或称呼机器人别称
func (ctx *Message) IsToMe() bool {
	if strings.Contains(ctx.GetRawMessageOrMessage(),
		fmt.Sprintf("[CQ:at,qq=%d]", ctx.Bot.selfID)) {
		return true
	}
	for _, name := range ctx.Bot.nickName {
		if name != "" && strings.Contains(ctx.GetRawMessageOrMessage(), name) {
			return true
		}
	}
	return false
}

func (ctx *Message) GetCardOrNickname() string {
	if ctx.Sender.CardName != "" {
		return ctx.Sender.CardName
	}
	return ctx.Sender.NickName
}

// 对RawMessage进行反转义
func (ctx *Message) Unescape() *Message {
	ctx.RawMessage = unescape.Replace(ctx.GetRawMessageOrMessage())
	return ctx
}

// 上下文发送消息
func (ctx *Message) SendMsg(message ...any) (err error) {
	switch ctx.MessageType {
	case "private":
		return ctx.Bot.SendPrivateMsg(ctx.UserID, fmt.Sprint(message...))
	case "group":
		return ctx.Bot.SendGroupMsg(ctx.GroupID, fmt.Sprint(message...))
	default:
		return errUnknownMsgType
	}
}

// 上下文回复消息
func (ctx *Message) SendMsgReply(message ...any) (err error) {
	return ctx.SendMsg(Reply(ctx.MessageID), fmt.Sprint(message...))
}

// 上下文发送合并转发消息
func (ctx *Message) SendForwardMsg(nodes ForwardMsg) (err error) {
	switch ctx.MessageType {
	case "private":
		return ctx.Bot.SendPrivateForwardMsg(ctx.UserID, nodes)
	case "group":
		return ctx.Bot.SendGroupForwardMsg(ctx.GroupID, nodes)
	default:
		return errUnknownMsgType
	}
}

// 上下文上传文件, 群聊传群文件, 私聊传离线文件
func (ctx *Message) UploadFile(path, name string) (err error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	switch ctx.MessageType {
	case "private":
		return ctx.Bot.UploadPrivateFile(ctx.UserID, abs, name)
	case "group":
		return ctx.Bot.UploadGroupFile(ctx.GroupID, abs, name)
	default:
		return errUnknownMsgType
	}
}
