package http

import (
	"net/http"
	"reflect"
	"strings"
	"sync"

	"quiz-studio-service/internal/app"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// Services bundles the use cases exposed over HTTP.
type Services struct {
	Accounts *app.AccountService
	Quizzes  *app.QuizService
	Folders  *app.FolderService
	Play     *app.PlayService
	Tokens   TokenParser
}

// NewRouter wires every route. All routes except register, login and the
// health check require a bearer token.
func NewRouter(s Services) *gin.Engine {
	registerValidators()

	router := gin.Default()

	accounts := NewAccountHandler(s.Accounts)
	quizzes := NewQuizHandler(s.Quizzes)
	folders := NewFolderHandler(s.Folders)
	play := NewPlayHandler(s.Play)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.POST("/register", accounts.Register)
	router.POST("/login", accounts.Login)

	protected := router.Group("/")
	protected.Use(AuthMiddleware(s.Tokens))
	{
		protected.GET("/dashboard", folders.Dashboard)

		protected.GET("/profile", accounts.Profile)
		protected.PUT("/profile", accounts.UpdateProfile)
		protected.DELETE("/profile", accounts.DeleteProfile)

		f := protected.Group("/folders")
		{
			f.GET("", folders.List)
			f.POST("", folders.Create)
			f.POST("/bulk_delete", folders.BulkDelete)
			f.GET("/:id", folders.Get)
			f.DELETE("/:id", folders.Delete)
			f.POST("/:id/remove_quizzes", folders.RemoveQuizzes)
			f.POST("/:id/add_quizzes", folders.AddQuizzes)
		}

		q := protected.Group("/quizzes")
		{
			q.POST("", quizzes.Create)
			q.GET("/:id", quizzes.Get)
			q.PUT("/:id", quizzes.Update)
			q.DELETE("/:id", quizzes.Delete)
		}

		protected.GET("/play", play.ServeWS)
	}
	return router
}

var validatorsOnce sync.Once

// registerValidators reports binding errors by JSON field name and adds the
// notblank rule to gin's validator.
func registerValidators() {
	validatorsOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "" || name == "-" {
				return field.Name
			}
			return name
		})
		_ = v.RegisterValidation("notblank", validators.NotBlank)
	})
}
