package journal

import "github.com/golang/glog"

// Notifier is the fire-and-forget side channel called on mutation settlement.
// Rendering (toast, status bar, log) is the consumer's business.
type Notifier interface {
	NotifySuccess(signature string)
	NotifyError(message string)
}

// LogNotifier writes settlements to the process log.
type LogNotifier struct{}

func (LogNotifier) NotifySuccess(signature string) {
	glog.Infof("journal: transaction confirmed: %s", signature)
}

func (LogNotifier) NotifyError(message string) {
	glog.Warningf("journal: %s", message)
}
