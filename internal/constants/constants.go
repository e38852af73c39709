package constants

const (
	// ContextKeyUserID is used both as the session key and the gin context key.
	ContextKeyUserID = "user_id"
	// ContextKeyTaskID holds the :id parsed by middleware.RequireTaskID.
	ContextKeyTaskID = "task_id"
	// ContextKeyRequester holds the policy.Requester resolved by middleware.LoadRequester.
	ContextKeyRequester = "requester"
	// ContextKeyRequestID holds the per-request id.
	ContextKeyRequestID = "request_id"

	SessionCookieName = "task_session"
	RequestIDHeader   = "X-Request-Id"

	MinPasswordLength = 8
	MinTitleLength    = 3
	MaxTagsLength     = 200
	MaxWeeklyHours    = 100

	// TaskPageSize is the fixed page size of task list views.
	TaskPageSize = 12

	DashboardRecentLimit = 5
	DashboardUrgentLimit = 3

	MaxAIGeneratedTasks = 20
)

// Route paths used as redirect targets.
const (
	LoginPath    = "/api/auth/login"
	TaskListPath = "/api/tasks"
)
