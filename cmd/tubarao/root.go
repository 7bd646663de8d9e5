package main

import (
	"go.uber.org/zap"

	"github.com/spf13/cobra"

	"github.com/tubaraaoemprestimo/tubaraoemprestimo-sub000/internal/common/config"
	"github.com/tubaraaoemprestimo/tubaraoemprestimo-sub000/internal/common/logger"
)

var (
	cfg    *config.Config
	zapLog *zap.Logger
	log    logger.Logger
)

var rootCmd = &cobra.Command{
	Use:   "tubarao",
	Short: "Motor financeiro e de cobrança de microcrédito",
	Long: `Motor financeiro e de cobrança para operações de microcrédito:
geração de planos de pagamento, acúmulo de juros de atraso, score
comportamental, simulação de renegociação e régua de cobrança.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		zapLog = logger.New(cfg.Logging.Level, cfg.Logging.Format)
		log = logger.NewZapAdapter(zapLog)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if zapLog != nil {
			zapLog.Sync()
		}
	},
}

func init() {
	rootCmd.AddCommand(collectCmd)
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(scheduleCmd)
}
