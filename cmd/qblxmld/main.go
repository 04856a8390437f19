package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"google.golang.org/grpc"

	"xdao.co/qblxml/grpcconv"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stderr)
	stop()
	os.Exit(code)
}

type config struct {
	listen      string
	maxMsgBytes int
	logLevel    string
	logJSON     bool
}

func parseFlags(args []string, errOut io.Writer) (config, error) {
	fs := flag.NewFlagSet("qblxmld", flag.ContinueOnError)
	fs.SetOutput(errOut)

	var cfg config
	fs.StringVar(&cfg.listen, "listen", "127.0.0.1:7787", "listen address")
	fs.IntVar(&cfg.maxMsgBytes, "max-msg-bytes", 64<<20, "Max gRPC message size in bytes (send+recv) and max input size")
	fs.StringVar(&cfg.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	fs.BoolVar(&cfg.logJSON, "log-json", false, "Emit JSON logs instead of console output")
	if err := fs.Parse(args); err != nil {
		return config{}, err
	}
	if fs.NArg() != 0 {
		return config{}, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	return cfg, nil
}

func newLogger(level string, json bool, w io.Writer) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	var enc zapcore.Encoder
	if json {
		enc = zapcore.NewJSONEncoder(encCfg)
	} else {
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewConsoleEncoder(encCfg)
	}
	core := zapcore.NewCore(enc, zapcore.Lock(zapcore.AddSync(w)), zap.NewAtomicLevelAt(lvl))
	return zap.New(core).Named("qblxmld"), nil
}

func run(ctx context.Context, args []string, errOut io.Writer) int {
	cfg, err := parseFlags(args, errOut)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 2
	}
	logger, err := newLogger(cfg.logLevel, cfg.logJSON, errOut)
	if err != nil {
		fmt.Fprintf(errOut, "invalid --log-level: %v\n", err)
		return 2
	}
	defer func() { _ = logger.Sync() }()

	lis, err := net.Listen("tcp", cfg.listen)
	if err != nil {
		logger.Error("listen failed", zap.String("addr", cfg.listen), zap.Error(err))
		return 1
	}
	defer lis.Close()

	return serve(ctx, lis, cfg, logger)
}

func serve(ctx context.Context, lis net.Listener, cfg config, logger *zap.Logger) int {
	opts := []grpc.ServerOption{grpc.UnaryInterceptor(grpcconv.UnaryServerLogger(logger))}
	if cfg.maxMsgBytes > 0 {
		opts = append(opts, grpc.MaxRecvMsgSize(cfg.maxMsgBytes), grpc.MaxSendMsgSize(cfg.maxMsgBytes))
	}
	s := grpc.NewServer(opts...)
	grpcconv.RegisterConverterServer(s, &grpcconv.Server{MaxInputBytes: cfg.maxMsgBytes})

	go func() {
		<-ctx.Done()
		logger.Info("shutting down")
		s.GracefulStop()
	}()

	logger.Info("listening", zap.String("addr", lis.Addr().String()), zap.Int("max_msg_bytes", cfg.maxMsgBytes))
	if err := s.Serve(lis); err != nil {
		logger.Error("serve failed", zap.Error(err))
		return 1
	}
	return 0
}
