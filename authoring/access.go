package authoring

import "lingo/models/course"

// CanAccessLesson reports whether a student may open lesson. Free lessons are open to
// everyone; locked ones need an active enrollment in the course owning version.
func CanAccessLesson(lesson *course.Lesson, version *course.CourseVersion, enrollment *course.Enrollment) bool {
	if lesson != nil && lesson.IsFree {
		return true
	}
	if lesson == nil || version == nil || enrollment == nil {
		return false
	}
	return enrollment.Status == course.EnrollmentActive &&
		!enrollment.IsDeleted &&
		enrollment.CourseID == version.CourseID
}
