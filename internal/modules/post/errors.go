package post

import "errors"

var (
	ErrPostNotFound      = errors.New("post not found")
	ErrInvalidVisibility = errors.New("invalid visibility")
	ErrInvalidParent     = errors.New("parent comment does not belong to this post")
	ErrEmptyPost         = errors.New("post needs content, images or a video")
)
