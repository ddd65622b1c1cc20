package courseRoutes

import (
	controllers "lingo/controllers/course"
	"lingo/middleware"
	"lingo/models"
	"lingo/validators"
	courseValidators "lingo/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes registers the catalogue, authoring and learning routes.
func SetupCourseRoutes(router fiber.Router) {
	authoring := middleware.RequireRole(models.RoleCreator, models.RoleAdmin)

	// Catalogue and courses
	courseGroup := router.Group("/courses")
	courseGroup.Get("/", validators.Pagination(), controllers.Catalogue)
	courseGroup.Get("/mine", middleware.JWTMiddleware, authoring, validators.Pagination(), controllers.MyCourses)
	courseGroup.Post("/", middleware.JWTMiddleware, authoring, courseValidators.CreateCourse(), controllers.CreateCourse)
	courseGroup.Get("/:courseId", controllers.GetCourse)
	courseGroup.Get("/:courseId/versions", middleware.JWTMiddleware, authoring, controllers.ListVersions)
	courseGroup.Post("/:courseId/versions", middleware.JWTMiddleware, authoring, controllers.CreateDraft)
	courseGroup.Get("/:courseId/reviews", validators.Pagination(), controllers.ListReviews)
	courseGroup.Post("/:courseId/reviews", middleware.JWTMiddleware, courseValidators.CreateReview(), controllers.CreateReview)

	// Versions
	versionGroup := router.Group("/versions/:versionId", middleware.JWTMiddleware)
	versionGroup.Get("/", authoring, controllers.GetVersion)
	versionGroup.Patch("/", authoring, courseValidators.UpdateVersion(), controllers.UpdateVersion)
	versionGroup.Get("/readiness", authoring, controllers.Readiness)
	versionGroup.Post("/publish", authoring, courseValidators.Publish(), controllers.Publish)
	versionGroup.Get("/history", authoring, controllers.History)

	// Lessons of a draft
	versionGroup.Post("/lessons", authoring, courseValidators.Lesson(), controllers.CreateLesson)
	versionGroup.Put("/lessons/order", authoring, courseValidators.ReorderLessons(), controllers.ReorderLessons)
	versionGroup.Get("/lessons/:lessonId", authoring, controllers.GetLesson)
	versionGroup.Put("/lessons/:lessonId", authoring, courseValidators.Lesson(), controllers.SaveLesson)
	versionGroup.Delete("/lessons/:lessonId", authoring, courseValidators.Revision(), controllers.RemoveLesson)
	setupQuestionRoutes(versionGroup, "/lessons/:lessonId", authoring)

	// Discounts
	versionGroup.Get("/discounts", authoring, controllers.ListDiscounts)
	versionGroup.Post("/discounts", authoring, courseValidators.Discount(), controllers.CreateDiscount)
	versionGroup.Put("/discounts/:discountId", authoring, courseValidators.Discount(), controllers.UpdateDiscount)
	versionGroup.Delete("/discounts/:discountId", authoring, controllers.DeleteDiscount)

	// Learning
	versionGroup.Post("/enroll", courseValidators.EnrollCourse(), controllers.EnrollCourse)
	versionGroup.Get("/lessons/:lessonId/learn", controllers.LearnLesson)
	versionGroup.Post("/lessons/:lessonId/attempts", courseValidators.Attempt(), controllers.SubmitAttempt)
	versionGroup.Get("/lessons/:lessonId/attempts", controllers.ListAttempts)

	// Standalone practice lessons
	lessonGroup := router.Group("/lessons", middleware.JWTMiddleware)
	lessonGroup.Get("/", validators.Pagination(), controllers.PracticeLessons)
	lessonGroup.Get("/mine", authoring, validators.Pagination(), controllers.MyStandaloneLessons)
	lessonGroup.Post("/", authoring, courseValidators.Lesson(), controllers.CreateStandaloneLesson)
	lessonGroup.Get("/:lessonId", authoring, controllers.GetLesson)
	lessonGroup.Put("/:lessonId", authoring, courseValidators.Lesson(), controllers.SaveLesson)
	lessonGroup.Get("/:lessonId/learn", controllers.LearnLesson)
	lessonGroup.Post("/:lessonId/attempts", courseValidators.Attempt(), controllers.SubmitAttempt)
	lessonGroup.Get("/:lessonId/attempts", controllers.ListAttempts)
	setupQuestionRoutes(lessonGroup, "/:lessonId", authoring)

	// Enrollments
	enrollmentGroup := router.Group("/enrollments", middleware.JWTMiddleware)
	enrollmentGroup.Get("/", validators.Pagination(), controllers.MyEnrollments)
	enrollmentGroup.Delete("/:enrollmentId", controllers.CancelEnrollment)

	// Media
	router.Post("/media", middleware.JWTMiddleware, authoring, controllers.UploadMedia)
}

// setupQuestionRoutes registers the question operations under a lesson route.
func setupQuestionRoutes(group fiber.Router, lessonPath string, authoring fiber.Handler) {
	group.Post(lessonPath+"/questions", authoring, courseValidators.QuestionInsert(), controllers.AddQuestion)
	group.Put(lessonPath+"/questions/:questionId", authoring, courseValidators.QuestionUpdate(), controllers.UpdateQuestion)
	group.Delete(lessonPath+"/questions/:questionId", authoring, courseValidators.Revision(), controllers.DeleteQuestion)
	group.Patch(lessonPath+"/questions/:questionId/move", authoring, courseValidators.QuestionMove(), controllers.MoveQuestion)
}
