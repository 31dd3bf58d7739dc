package domain

import "github.com/ranwip/pm-backend/internal/apperr"

func NotFound(id int64) error {
	return apperr.NotFound("Comment with ID %d not found", id)
}

func ParentNotFound(id int64) error {
	return apperr.NotFound("Parent comment with ID %d not found", id)
}

func ParentOnOtherTask() error {
	return apperr.Validation("Parent comment must belong to the same task")
}

func HasReplies() error {
	return apperr.Conflict("Cannot delete comment that has replies. Delete replies first.")
}

func NoReactions(emoji string) error {
	return apperr.Validation("No %s reactions found on this comment", emoji)
}
