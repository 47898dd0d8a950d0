package mouthpiece

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/avatarworks/mouthpiece/pkg/avatar"
	"github.com/avatarworks/mouthpiece/pkg/config"
	"github.com/avatarworks/mouthpiece/pkg/logger"
	"github.com/avatarworks/mouthpiece/pkg/types"
)

var speakCmd = &cobra.Command{
	Use:   "speak",
	Short: "Send a single speak request through the configured providers",
	RunE:  runSpeak,
}

var (
	speakText     string
	speakEmotion  string
	speakLanguage string
	speakVoice    string
	speakGesture  string
)

func init() {
	rootCmd.AddCommand(speakCmd)

	speakCmd.Flags().StringVar(&speakText, "text", "", "Text to speak (required)")
	speakCmd.Flags().StringVar(&speakEmotion, "emotion", "neutral", "Canonical emotion tag")
	speakCmd.Flags().StringVar(&speakLanguage, "language", "en", "Language code")
	speakCmd.Flags().StringVar(&speakVoice, "voice", "", "Voice ID")
	speakCmd.Flags().StringVar(&speakGesture, "gesture", "", "Gesture hint")
	speakCmd.MarkFlagRequired("text")
}

func runSpeak(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Format)

	client, err := avatar.New(cfg, log, nil)
	if err != nil {
		return fmt.Errorf("failed to initialize avatar client: %w", err)
	}
	defer client.Close()

	timeout := time.Duration(cfg.Avatar.DefaultTimeoutSeconds) * time.Second
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	result, err := client.Speak(ctx, types.SpeakRequest{
		Text:     speakText,
		Emotion:  speakEmotion,
		Language: speakLanguage,
		VoiceID:  speakVoice,
		Gesture:  speakGesture,
	})
	if err != nil {
		return err
	}

	out, err := yaml.Marshal(result)
	if err != nil {
		return err
	}
	fmt.Print(string(out))
	return nil
}
