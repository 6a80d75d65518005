package config

import (
	"time"

	"github.com/chaaaaae/TTOBA/internal/delivery/http/handler"
	"github.com/chaaaaae/TTOBA/internal/delivery/http/middleware"
	"github.com/chaaaaae/TTOBA/internal/delivery/http/repository"
	"github.com/chaaaaae/TTOBA/internal/delivery/http/route"
	"github.com/chaaaaae/TTOBA/internal/delivery/http/usecase"
	"github.com/chaaaaae/TTOBA/internal/pkg/llm"
	"github.com/chaaaaae/TTOBA/internal/pkg/media"
	"github.com/chaaaaae/TTOBA/internal/pkg/stt"
	"github.com/chaaaaae/TTOBA/internal/pkg/validate"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"gorm.io/gorm"
)

type BootstrapConfig struct {
	Api       *fiber.App
	Config    *viper.Viper
	DB        *gorm.DB
	Log       *logrus.Logger
	Validator *validate.Validator
}

func Bootstrap(config *BootstrapConfig) error {

	mid := middleware.NewMiddleware(&middleware.MiddlewareConfig{
		Log:    config.Log,
		Config: config.Config,
	})

	apiKey := ""
	model := ""
	baseURL := ""
	sttModel := ""
	sttLanguage := ""
	answerPrompt := ""
	overallPrompt := ""
	settleDelay := time.Duration(0)
	mediaDir := "./artifacts"
	mediaBaseURL := "/media"
	if config.Config != nil {
		apiKey = config.Config.GetString("llm.openai.api_key")
		model = config.Config.GetString("llm.openai.model")
		baseURL = config.Config.GetString("llm.openai.base_url")
		answerPrompt = config.Config.GetString("llm.openai.answer_prompt")
		overallPrompt = config.Config.GetString("llm.openai.overall_prompt")
		sttModel = config.Config.GetString("stt.model")
		sttLanguage = config.Config.GetString("stt.language")
		settleDelay = time.Duration(config.Config.GetInt("stt.settle_delay_ms")) * time.Millisecond
		if v := config.Config.GetString("media.dir"); v != "" {
			mediaDir = v
		}
		if v := config.Config.GetString("media.base_url"); v != "" {
			mediaBaseURL = v
		}
	}

	openai := llm.NewOpenAIClient(apiKey, model, sttModel, baseURL, sttLanguage)
	recorder := stt.NewRecorder(openai, settleDelay, config.Log)

	store, err := media.NewStore(mediaDir, mediaBaseURL)
	if err != nil {
		return err
	}

	interviewRepo := repository.NewInterviewRepository(config.DB)

	analysisUsecase := usecase.NewAnalysisUsecase(usecase.AnalysisConfig{
		DB:            config.DB,
		LLM:           openai,
		Repository:    interviewRepo,
		Config:        config.Config,
		Log:           config.Log,
		AnswerPrompt:  answerPrompt,
		OverallPrompt: overallPrompt,
	})
	sessionUsecase := usecase.NewSessionUsecase(usecase.SessionConfig{
		DB:         config.DB,
		Repository: interviewRepo,
		Log:        config.Log,
	})
	recorderUsecase := usecase.NewRecorderUsecase(usecase.RecorderConfig{
		DB:         config.DB,
		Repository: interviewRepo,
		Store:      store,
		Log:        config.Log,
	})
	reportUsecase := usecase.NewReportUsecase(usecase.ReportConfig{
		DB:         config.DB,
		Repository: interviewRepo,
		Analysis:   analysisUsecase,
		Log:        config.Log,
	})

	interviewHandler := handler.NewInterviewHandler(config.Validator, config.Log,
		sessionUsecase, recorderUsecase, analysisUsecase, reportUsecase)
	analysisHandler := handler.NewAnalysisHandler(config.Validator, config.Log, analysisUsecase)
	sttHandler := handler.NewSTTHandler(config.Log, recorder)

	route.Setup(&route.RouteConfig{
		Api:              config.Api,
		Middleware:       mid,
		InterviewHandler: interviewHandler,
		AnalysisHandler:  analysisHandler,
		STTHandler:       sttHandler,
		MediaDir:         mediaDir,
		MediaPrefix:      mediaBaseURL,
	})

	return nil
}
