package services

import (
	"fmt"

	"github.com/containrrr/shoutrrr"

	"github.com/microsoc/command-centre/internal/logger"
	"github.com/microsoc/command-centre/internal/models"
	"github.com/microsoc/command-centre/internal/util"
)

// AlertService pushes operator notifications when the engine places a new
// block. Delivery goes through shoutrrr, so the destination can be Discord,
// Slack, SMTP or any other supported service URL.
type AlertService struct {
	url  string
	send func(url, message string) error
}

// NewAlertService returns a service targeting the given shoutrrr URL. An
// empty URL disables alerting.
func NewAlertService(url string) *AlertService {
	return &AlertService{url: url, send: shoutrrr.Send}
}

// NotifyBlock fires an alert for a verdict that newly blocked an address.
// Failures are logged and swallowed; alerting is best-effort.
func (s *AlertService) NotifyBlock(v models.Verdict) {
	if s == nil || s.url == "" || !v.IsBlockedNow {
		return
	}

	msg := fmt.Sprintf("Blocked %s (%s, severity %s)\n\n%s",
		v.IP, v.AttackType, v.Severity, util.SanitizeForLog(v.Reason))

	go func() {
		if err := s.send(s.url, msg); err != nil {
			logger.WithFields(map[string]interface{}{"ip": v.IP}).
				Warnf("block alert delivery failed: %v", err)
		}
	}()
}
