package domain

import "errors"

var ErrTitleTooShort = errors.New("book title shorter than 4 characters")
var ErrAuthorNameTooShort = errors.New("author name shorter than 4 characters")
var ErrUsernameTooShort = errors.New("username shorter than 5 characters")
var ErrAuthorNotFound = errors.New("author not found")
var ErrUserNotFound = errors.New("user not found")
var ErrAuthorExists = errors.New("author already exists")
var ErrUsernameTaken = errors.New("username already in use")
var ErrInvalidCredentials = errors.New("wrong username or password")
var ErrInvalidToken = errors.New("invalid token")
