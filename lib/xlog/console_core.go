package xlog

import (
	"io"
	"os"
	"time"

	"go.uber.org/zap/zapcore"
)

var encoderMap = map[LogEncoderType]func(cfg zapcore.EncoderConfig) zapcore.Encoder{
	JSON:      zapcore.NewJSONEncoder,
	PlainText: zapcore.NewConsoleEncoder,
}

func getEncoderByType(typ LogEncoderType) func(cfg zapcore.EncoderConfig) zapcore.Encoder {
	enc, ok := encoderMap[typ]
	if !ok {
		return zapcore.NewJSONEncoder
	}
	return enc
}

// getOutWriter prefers the custom writer. Stdout is buffered, the returned
// stop function flushes and stops the buffer.
func getOutWriter(typ LogOutWriterType, custom io.Writer) (zapcore.WriteSyncer, func() error) {
	if custom != nil {
		return zapcore.AddSync(custom), nil
	}
	switch typ {
	case StdErr:
		return zapcore.Lock(os.Stderr), nil
	case StdOut:
		fallthrough
	default:
	}
	ws := &zapcore.BufferedWriteSyncer{
		WS:            zapcore.AddSync(os.Stdout),
		Size:          512 * 1024,
		FlushInterval: 5 * time.Second,
	}
	return ws, ws.Stop
}

type consoleCore struct {
	lvlEnabler zapcore.LevelEnabler
	ws         zapcore.WriteSyncer
	encoder    LogEncoderType
	lvlEnc     zapcore.LevelEncoder
	tsEnc      zapcore.TimeEncoder
}

func (cc *consoleCore) build() zapcore.Core {
	config := zapcore.EncoderConfig{
		MessageKey:    "msg",
		LevelKey:      "lvl",
		EncodeLevel:   cc.lvlEnc,
		TimeKey:       "ts",
		EncodeTime:    cc.tsEnc,
		CallerKey:     "callAt",
		EncodeCaller:  zapcore.ShortCallerEncoder,
		FunctionKey:   coreKeyIgnored,
		NameKey:       "component",
		EncodeName:    zapcore.FullNameEncoder,
		StacktraceKey: coreKeyIgnored,
	}
	return zapcore.NewCore(getEncoderByType(cc.encoder)(config), cc.ws, cc.lvlEnabler)
}

func (cc *consoleCore) bannerCore() zapcore.Core {
	config := zapcore.EncoderConfig{
		MessageKey:    "banner", // Required, but the plain text will be ignored.
		LevelKey:      coreKeyIgnored,
		TimeKey:       coreKeyIgnored,
		CallerKey:     coreKeyIgnored,
		StacktraceKey: coreKeyIgnored,
	}
	return zapcore.NewCore(getEncoderByType(cc.encoder)(config), cc.ws, zapcore.InfoLevel)
}
