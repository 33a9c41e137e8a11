package chat

import "time"

// SeedSelfID stands in for the local user in seed conversations. It never
// matches a real identity id, so seeded "own" messages render as outgoing
// only because their sender is not the participant.
const SeedSelfID = "user-0"

// SeedConversations returns the demo conversations shown before onboarding.
func SeedConversations(now time.Time) []Conversation {
	ms := now.UnixMilli()
	minute := int64(time.Minute / time.Millisecond)
	hour := 60 * minute

	alice := User{ID: "user-1", Name: "Alice", Job: "Frontend Developer", Avatar: AvatarURL("alice"), Online: true}
	bob := User{ID: "user-2", Name: "Bob", Job: "Backend Developer", Avatar: AvatarURL("bob")}
	charlie := User{ID: "user-3", Name: "Charlie", Job: "UI/UX Designer", Avatar: AvatarURL("charlie"), Online: true}
	diana := User{ID: "user-4", Name: "Diana", Job: "QA Engineer", Avatar: AvatarURL("diana")}

	return []Conversation{
		{
			ID:          "chat-1",
			Participant: alice,
			Messages: []Message{
				{ID: "msg-1-1", Text: "Hey, how is the project going?", Timestamp: ms - 5*minute, SenderID: alice.ID, Status: StatusRead},
				{ID: "msg-1-2", Text: "It's going well! Almost done with the main feature.", Timestamp: ms - 4*minute, SenderID: SeedSelfID, Status: StatusRead},
				{ID: "msg-1-3", Text: "Great to hear! Let me know if you need any help.", Timestamp: ms - 3*minute, SenderID: alice.ID, Status: StatusDelivered},
			},
			UnreadCount:          1,
			LastMessageTimestamp: ms - 3*minute,
		},
		{
			ID:          "chat-2",
			Participant: bob,
			Messages: []Message{
				{ID: "msg-2-1", Text: "Can you review my PR?", Timestamp: ms - 2*hour, SenderID: bob.ID, Status: StatusRead},
				{ID: "msg-2-2", Text: "Sure, I'll take a look this afternoon.", Timestamp: ms - 59*minute, SenderID: SeedSelfID, Status: StatusDelivered},
			},
			LastMessageTimestamp: ms - 59*minute,
		},
		{
			ID:          "chat-3",
			Participant: charlie,
			Messages: []Message{
				{ID: "msg-3-1", Text: "The new designs are ready for review.", Timestamp: ms - 24*hour, SenderID: charlie.ID, Status: StatusRead},
			},
			LastMessageTimestamp: ms - 24*hour,
		},
		{
			ID:          "chat-4",
			Participant: diana,
			Messages: []Message{
				{ID: "msg-4-1", Text: "Found a bug in the staging environment.", Timestamp: ms - 48*hour, SenderID: diana.ID, Status: StatusDelivered},
			},
			UnreadCount:          1,
			LastMessageTimestamp: ms - 48*hour,
		},
	}
}
