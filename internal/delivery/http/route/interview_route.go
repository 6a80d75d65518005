package route

import (
	"github.com/chaaaaae/TTOBA/internal/delivery/http/handler"
	"github.com/chaaaaae/TTOBA/internal/delivery/http/middleware"
	"github.com/gofiber/fiber/v2"
)

func SetupInterviewRoute(api *fiber.App, interview handler.InterviewHandler, analysis handler.AnalysisHandler, stt handler.STTHandler, m *middleware.Middleware) {
	sessionRouter := api.Group("/sessions")
	{
		sessionRouter.Post("/", interview.StartSession)
		sessionRouter.Post("/:session_id/end", interview.EndSession)
		sessionRouter.Post("/:session_id/answers", interview.SubmitAnswer)
		sessionRouter.Post("/:session_id/recordings/start", interview.StartRecording)
		sessionRouter.Post("/:session_id/recordings/stop", interview.StopRecording)
		sessionRouter.Post("/:session_id/analyze", interview.AnalyzeSession)
	}

	reportRouter := api.Group("/report")
	{
		reportRouter.Get("/sessions/:session_id", interview.GetSessionReport)
	}

	api.Get("/practice-sets", interview.ListPracticeSets)

	analysisRouter := api.Group("/api")
	{
		analysisRouter.Post("/analyze-answer", analysis.AnalyzeAnswers)
		analysisRouter.Post("/analyze-overall", analysis.AnalyzeOverall)
	}

	sttRouter := api.Group("/stt")
	{
		sttRouter.Post("/start", stt.Start)
		sttRouter.Post("/stop", stt.Stop)
	}
}
