package contextkeys

type contextKey string

const (
	// DBContextKey holds the request-scoped *gorm.DB (a transaction).
	DBContextKey = contextKey("db")
	// CurrentUserKey holds the authenticated *models.User.
	CurrentUserKey = contextKey("current_user")
)
