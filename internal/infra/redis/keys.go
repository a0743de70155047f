package redis

import "fmt"

// Key formats are an interop contract shared with other readers of the same
// store; do not change them without migrating existing instances.

func sessionKey(instanceID, userID string) string {
	return fmt.Sprintf("game:%s:player:%s", instanceID, userID)
}

func statsKey(instanceID, questionID string) string {
	return fmt.Sprintf("stats:%s:%s", instanceID, questionID)
}

func statsTotalKey(instanceID, questionID string) string {
	return statsKey(instanceID, questionID) + ":total"
}

func leaderboardKey(instanceID string) string {
	return "leaderboard:" + instanceID
}

func leaderboardEntryKey(instanceID, userID string) string {
	return leaderboardKey(instanceID) + ":" + userID
}

func deckKey(instanceID string) string {
	return "deck:" + instanceID
}
