package service

import (
	"context"
	"log"
	"time"

	"arisefit/internal/models"
	"arisefit/internal/progression"
)

// Broadcaster pushes an event to every connected client. The chat hub
// satisfies this.
type Broadcaster interface {
	Broadcast(eventType string, payload interface{})
}

// EventNotifier fans committed progression events out to the websocket hub,
// the leaderboard cache and, for rank changes, the announcements mailbox.
// Everything here is fire-and-forget.
type EventNotifier struct {
	hub         Broadcaster
	email       *EmailService
	leaderboard *LeaderboardService
}

// NewEventNotifier creates the notifier. Any of the sinks may be nil.
func NewEventNotifier(hub Broadcaster, email *EmailService, leaderboard *LeaderboardService) *EventNotifier {
	return &EventNotifier{hub: hub, email: email, leaderboard: leaderboard}
}

func (n *EventNotifier) broadcast(eventType string, payload interface{}) {
	if n.hub != nil {
		n.hub.Broadcast(eventType, payload)
	}
}

// NotifyLevelUp announces a level-up and refreshes the leaderboard entry.
func (n *EventNotifier) NotifyLevelUp(user *models.User, newLevel, pointsAwarded int) {
	n.broadcast("level_up", map[string]interface{}{
		"userId":        user.ID,
		"username":      user.Username,
		"level":         newLevel,
		"pointsAwarded": pointsAwarded,
	})
	if n.leaderboard != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		n.leaderboard.RecordScore(ctx, user.ID, user.Username, user.Level, user.XP)
	}
}

// NotifyRankUp announces a rank change on every channel.
func (n *EventNotifier) NotifyRankUp(user *models.User, newRank progression.Rank) {
	n.broadcast("rank_up", map[string]interface{}{
		"userId":   user.ID,
		"username": user.Username,
		"rank":     newRank,
	})

	if n.email == nil || !n.email.IsEnabled() {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		var err error
		if newRank == progression.RankS {
			err = n.email.SendSRankAnnouncement(ctx, user.Username)
		} else {
			err = n.email.SendRankUpAnnouncement(ctx, user.Username, string(newRank))
		}
		if err != nil {
			log.Printf("Failed to send rank announcement for %s: %v", user.Username, err)
		}
	}()
}

// NotifyMilestone announces an attribute crossing a decade boundary.
func (n *EventNotifier) NotifyMilestone(user *models.User, attribute string, milestone int) {
	n.broadcast("milestone", map[string]interface{}{
		"userId":    user.ID,
		"username":  user.Username,
		"attribute": attribute,
		"milestone": milestone,
	})
}

// NotifyUnlock announces a newly earned badge or title.
func (n *EventNotifier) NotifyUnlock(user *models.User, kind, key, name string) {
	n.broadcast("unlock", map[string]interface{}{
		"userId":   user.ID,
		"username": user.Username,
		"kind":     kind,
		"key":      key,
		"name":     name,
	})
}
