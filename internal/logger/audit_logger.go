// Package logger provides audit logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// AuditLogger provides a dedicated audit trail for state-changing
// operations: score submissions, replays and parameter changes.
type AuditLogger struct {
	*logrus.Entry
}

// NewAuditLogger creates a new audit logger.
func NewAuditLogger(baseLogger *logrus.Logger) *AuditLogger {
	return &AuditLogger{
		Entry: baseLogger.WithField("component", "audit"),
	}
}

// LogScoreSubmission logs an accepted score submission.
func (al *AuditLogger) LogScoreSubmission(matchID string, homeTeam, awayTeam string, homeScore, awayScore int, homeDelta, awayDelta float64, submittedBy string) {
	al.WithFields(logrus.Fields{
		"match_id":     matchID,
		"home_team":    homeTeam,
		"away_team":    awayTeam,
		"home_score":   homeScore,
		"away_score":   awayScore,
		"home_delta":   homeDelta,
		"away_delta":   awayDelta,
		"submitted_by": submittedBy,
	}).Info("Score submission recorded")
}

// LogReplay logs a full history replay.
func (al *AuditLogger) LogReplay(matchesReplayed int, duration string, triggeredBy string) {
	al.WithFields(logrus.Fields{
		"matches_replayed": matchesReplayed,
		"duration":         duration,
		"triggered_by":     triggeredBy,
	}).Info("History replay recorded")
}

// LogParameterChange logs a parameter set change.
func (al *AuditLogger) LogParameterChange(paramKey string, oldValue, newValue interface{}, changedBy string) {
	al.WithFields(logrus.Fields{
		"param_key":  paramKey,
		"old_value":  oldValue,
		"new_value":  newValue,
		"changed_by": changedBy,
	}).Info("Parameter changed")
}
