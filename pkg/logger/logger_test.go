package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/site-monitor/pkg/logger"
)

var _ = Describe("Logger", func() {
	ctx := context.Background()

	DescribeTable("level parsing",
		func(level string, enabled, disabled slog.Level) {
			log := logger.New(level, false, "dev")
			Expect(log.Enabled(ctx, enabled)).To(BeTrue())
			if disabled != enabled {
				Expect(log.Enabled(ctx, disabled)).To(BeFalse())
			}
		},
		Entry("debug", "debug", slog.LevelDebug, slog.LevelDebug),
		Entry("info", "info", slog.LevelInfo, slog.LevelDebug),
		Entry("warn", "WARN", slog.LevelWarn, slog.LevelInfo),
		Entry("error", "error", slog.LevelError, slog.LevelWarn),
		Entry("invalid falls back to info", "loud", slog.LevelInfo, slog.LevelDebug),
	)

	It("should write JSON with the environment in prod", func() {
		var buf bytes.Buffer
		log := logger.NewWithWriter(&buf, "info", false, "prod")
		log.Info("Cycle completed", slog.Int("online", 3))

		var record map[string]any
		Expect(json.Unmarshal(buf.Bytes(), &record)).To(Succeed())
		Expect(record).To(HaveKeyWithValue("msg", "Cycle completed"))
		Expect(record).To(HaveKeyWithValue("environment", "prod"))
		Expect(record).To(HaveKeyWithValue("online", BeNumerically("==", 3)))
	})

	It("should write text outside prod", func() {
		var buf bytes.Buffer
		log := logger.NewWithWriter(&buf, "info", false, "dev")
		log.Warn("External sync failed")

		Expect(buf.String()).To(ContainSubstring("level=WARN"))
		Expect(buf.String()).To(ContainSubstring(`msg="External sync failed"`))
		Expect(buf.String()).To(ContainSubstring("environment=dev"))
	})

	It("should add the source location when asked", func() {
		var buf bytes.Buffer
		logger.NewWithWriter(&buf, "info", true, "dev").Info("hello")
		Expect(buf.String()).To(ContainSubstring("source="))
	})
})
