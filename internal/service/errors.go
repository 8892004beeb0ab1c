package service

import "errors"

var (
	ErrInvalidName       = errors.New("invalid name")
	ErrInvalidIndustry   = errors.New("invalid industry")
	ErrContactRequired   = errors.New("contact is required")
	ErrForeignContact    = errors.New("contact belongs to another user")
	ErrIncompleteDraft   = errors.New("registration draft is incomplete")
	ErrNotRegistered     = errors.New("manager is not registered")
	ErrInvalidClientName = errors.New("invalid client name")
	ErrEmptyText         = errors.New("text is empty")
	ErrTextTooLong       = errors.New("text is too long")
	ErrInvalidDate       = errors.New("invalid date format")
	ErrPastDueDate       = errors.New("due date is in the past")
	ErrInvalidReminder   = errors.New("invalid reminder type")
)
