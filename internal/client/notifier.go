package client

import "go.uber.org/zap"

// Notifier shows the outcome of a store mutation to the admin.
type Notifier interface {
	Success(message string)
	Error(message string)
}

type LogNotifier struct {
	Logger *zap.Logger
}

func (n LogNotifier) Success(message string) {
	n.Logger.Info(message)
}

func (n LogNotifier) Error(message string) {
	n.Logger.Error(message)
}
