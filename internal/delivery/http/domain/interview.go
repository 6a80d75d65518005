package domain

var (
	SESSION_START_SUCCESS        = "Session started"
	SESSION_START_FAILED         = "Failed to start session"
	ANSWER_SUBMIT_SUCCESS        = "Answer saved"
	ANSWER_SUBMIT_FAILED         = "Failed to save answer"
	RECORDING_START_SUCCESS      = "Recording started"
	RECORDING_START_FAILED       = "Failed to start recording"
	RECORDING_STOP_SUCCESS       = "Recording stored"
	RECORDING_STOP_FAILED        = "Failed to store recording"
	SESSION_ANALYZE_SUCCESS      = "Session analysis completed"
	SESSION_ANALYZE_FAILED       = "Failed to analyze session"
	REPORT_GET_SUCCESS           = "Report assembled"
	REPORT_GET_FAILED            = "Failed to assemble report"
	PRACTICE_SET_LIST_SUCCESS    = "Practice sets retrieved"
	PRACTICE_SET_LIST_FAILED     = "Failed to retrieve practice sets"
	OVERALL_FEEDBACK_FAILED      = "Overall feedback request failed"
	OVERALL_FEEDBACK_NO_DATA     = "Not enough analyzed answers for overall feedback"
	ANSWER_ANALYZE_BATCH_FAILED  = "Answer analysis request failed"
	SESSION_NOT_FOUND            = "Session not found"
	QUESTION_NUMBER_OUT_OF_RANGE = "Question number outside this session's catalog"
)
