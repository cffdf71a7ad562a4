package log

import (
	"fmt"
	"sync"

	"github.com/otakusttt/QQgroup-annual-report-analyzer/infrastructures/common"
	"github.com/otakusttt/QQgroup-annual-report-analyzer/infrastructures/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type LogLevel int8

const (
	LogLevelNull    LogLevel = LogLevel(zap.FatalLevel)
	LogLevelDebug            = LogLevel(zap.DebugLevel)
	LogLevelInfo             = LogLevel(zap.InfoLevel)
	LogLevelWarning          = LogLevel(zap.WarnLevel)
	LogLevelError            = LogLevel(zap.ErrorLevel)
	LogLevelPanic            = LogLevel(zap.PanicLevel)
	LogLevelFatal            = LogLevel(zap.FatalLevel)
)

// Logger
type Logger struct {
	logger *zap.Logger
	Sugar  *zap.SugaredLogger
}

var (
	instance *Logger
	once     sync.Once

	// 默认log级别
	logLevel = LogLevelNull

	// 是否打印调用堆栈
	enableStacktrace = false
)

// SetStacktrace 是否开启堆栈打印
func SetStacktrace(enable bool) {
	enableStacktrace = enable
}

// InitLogLevel InitLogLevel
func InitLogLevel(l LogLevel) {
	logLevel = l
}

// GetInstance GetInstance
func GetInstance() *Logger {
	once.Do(func() {
		instance = createLogger()
	})
	return instance
}

// createLogger 分析器是一次性批处理任务，日志只走stderr/stdout，
// 不做文件轮转
func createLogger() *Logger {
	ret := &Logger{}
	var logConf zap.Config

	cfg := config.GetInstance()

	if common.ShouldUseStderr() {
		// 开发和容器环境：使用开发配置，输出到stderr
		logConf = zap.NewDevelopmentConfig()
		logConf.OutputPaths = []string{"stderr"}
		logConf.ErrorOutputPaths = []string{"stderr"}
	} else {
		// 生产环境：JSON输出到stderr
		logConf = zap.NewProductionConfig()
		logConf.Encoding = "json"
		logConf.OutputPaths = []string{"stderr"}
		logConf.ErrorOutputPaths = []string{"stderr"}
	}

	logConf.DisableStacktrace = !enableStacktrace

	if logLevel == LogLevelNull {
		// 没有被显示指定，从配置文件中加载默认值
		logLevel = LogLevel(cfg.LogConfig.LogLevel)
	}
	logConf.Level = zap.NewAtomicLevelAt(zapcore.Level(logLevel))

	var err error
	ret.logger, err = logConf.Build(zap.AddCallerSkip(1))
	if err != nil {
		fmt.Println("logConf.Build err:", err)
	}
	ret.Sugar = ret.logger.Sugar()
	return ret
}

// Debugf uses fmt.Sprintf to log a templated message.
func Debugf(template string, args ...interface{}) {
	if template == "" {
		GetInstance().Sugar.Warn("Debugf called with empty template, use Debug() instead")
		if len(args) > 0 {
			GetInstance().Sugar.Debug(args...)
		}
		return
	}
	GetInstance().Sugar.Debugf(template, args...)
}

// Infof uses fmt.Sprintf to log a templated message.
func Infof(template string, args ...interface{}) {
	if template == "" {
		GetInstance().Sugar.Warn("Infof called with empty template, use Info() instead")
		if len(args) > 0 {
			GetInstance().Sugar.Info(args...)
		}
		return
	}
	GetInstance().Sugar.Infof(template, args...)
}

// Warnf uses fmt.Sprintf to log a templated message.
func Warnf(template string, args ...interface{}) {
	if template == "" {
		GetInstance().Sugar.Warn("Warnf called with empty template, use Warn() instead")
		if len(args) > 0 {
			GetInstance().Sugar.Warn(args...)
		}
		return
	}
	GetInstance().Sugar.Warnf(template, args...)
}

// Errorf uses fmt.Sprintf to log a templated message.
func Errorf(template string, args ...interface{}) {
	if template == "" {
		GetInstance().Sugar.Warn("Errorf called with empty template, use Error() instead")
		if len(args) > 0 {
			GetInstance().Sugar.Error(args...)
		}
		return
	}
	GetInstance().Sugar.Errorf(template, args...)
}

// Fatalf uses fmt.Sprintf to log a templated message, then calls os.Exit.
func Fatalf(template string, args ...interface{}) {
	if template == "" {
		GetInstance().Sugar.Warn("Fatalf called with empty template, use Fatal() instead")
		if len(args) > 0 {
			GetInstance().Sugar.Fatal(args...)
		}
		return
	}
	GetInstance().Sugar.Fatalf(template, args...)
}
