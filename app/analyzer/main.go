package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/otakusttt/QQgroup-annual-report-analyzer/infrastructures/config"
	"github.com/otakusttt/QQgroup-annual-report-analyzer/infrastructures/log"
	"github.com/otakusttt/QQgroup-annual-report-analyzer/infrastructures/segment"
	"github.com/otakusttt/QQgroup-annual-report-analyzer/infrastructures/stopwords"
	"github.com/otakusttt/QQgroup-annual-report-analyzer/infrastructures/utils"
	"github.com/otakusttt/QQgroup-annual-report-analyzer/models/analyzer"
	"github.com/otakusttt/QQgroup-annual-report-analyzer/models/message"
)

var (
	flagInput     string
	flagOutput    string
	flagConfig    string
	flagStart     string
	flagEnd       string
	flagStopwords bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "analyzer",
		Short:        "QQ群聊年度报告分析器",
		SilenceUsage: true,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze",
		Short: "分析导出的群聊JSON并生成统计报告",
		RunE:  runAnalyze,
	}
	analyzeCmd.Flags().StringVarP(&flagInput, "input", "i", "", "导出的群聊JSON文件路径（必填）")
	analyzeCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "报告输出路径，默认按群名生成")
	analyzeCmd.Flags().StringVarP(&flagConfig, "config", "c", "", "配置文件路径，默认"+config.DefaultConfigPath)
	analyzeCmd.Flags().StringVar(&flagStart, "start", "", "起始日期 YYYY-MM-DD（东八区），覆盖配置")
	analyzeCmd.Flags().StringVar(&flagEnd, "end", "", "结束日期 YYYY-MM-DD（东八区），覆盖配置")
	analyzeCmd.Flags().BoolVar(&flagStopwords, "stopwords", false, "启用停用词过滤，覆盖配置")
	analyzeCmd.MarkFlagRequired("input")

	rootCmd.AddCommand(analyzeCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	var cfg *config.ReportConfig
	if flagConfig != "" {
		cfg = config.Load(flagConfig)
	} else {
		cfg = config.GetInstance()
	}

	// 命令行参数优先于配置文件
	if flagStart != "" {
		cfg.Filter.StartDate = flagStart
	}
	if flagEnd != "" {
		cfg.Filter.EndDate = flagEnd
	}
	if flagStopwords {
		cfg.Stopwords.Enable = true
	}

	transcript, err := message.Load(flagInput)
	if err != nil {
		return err
	}

	var stop stopwords.Set
	if cfg.Stopwords.Enable {
		stop = stopwords.Load(cfg.Stopwords.Path, cfg.Stopwords.Manual)
	}

	seg, err := segment.New()
	if err != nil {
		return err
	}

	a := analyzer.New(transcript, cfg, stop, seg)
	if err := a.Analyze(); err != nil {
		log.Errorf("[%s] 分析失败: %v", a.RunID(), err)
		return err
	}

	report := a.Export()

	outPath := flagOutput
	if outPath == "" {
		outPath = utils.SanitizeFilename(report.ChatName) + "_report.json"
	}
	if err := writeReport(report, outPath); err != nil {
		return err
	}
	log.Infof("[%s] 报告已写入: %s", a.RunID(), outPath)

	printSummary(report)
	return nil
}

func writeReport(report *analyzer.Report, path string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func printSummary(report *analyzer.Report) {
	fmt.Printf("群聊: %s  消息数: %d\n\n", report.ChatName, report.MessageCount)

	fmt.Println("热词 TOP10:")
	for i, w := range report.TopWords {
		if i >= 10 {
			break
		}
		fmt.Printf("  %2d. %s (%d次)\n", i+1, w.Word, w.Freq)
	}

	fmt.Println("\n活跃时段:")
	fmt.Println(strings.Join(analyzer.HourBar(report.HourDistribution, 20), "\n"))
}
