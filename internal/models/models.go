package models

// User represents a registered account
type User struct {
	ID       int64  `db:"id" json:"id"`
	UserName string `db:"user_name" json:"user_name"`
	Password string `db:"password" json:"-"`
	Icon     string `db:"icon" json:"icon"`
	Slogan   string `db:"slogan" json:"slogan"`
	Sessdata int64  `db:"sessdata" json:"-"`
}

// Relation represents one direction of a friendship edge
type Relation struct {
	UserID   int64 `db:"user_id" json:"user_id"`
	FriendID int64 `db:"friend_id" json:"friend_id"`
	Unread   int   `db:"unread" json:"unread"`
}

// FriendRequest represents a pending friend request
type FriendRequest struct {
	RequesterID int64 `db:"requester_id" json:"requester_id"`
	RequesteeID int64 `db:"requestee_id" json:"requestee_id"`
}

// ChatMessage represents a whisper message between two users
type ChatMessage struct {
	ID         int64  `db:"id" json:"-"`
	SenderID   int64  `db:"sender_id" json:"sender_id"`
	ReceiverID int64  `db:"receiver_id" json:"receiver_id"`
	Timestamp  int64  `db:"timestamp" json:"timestamp"`
	Message    string `db:"message" json:"message"`
}

// FriendInfo is a friend-list row: the friend's public profile plus
// the caller's unread counter for that friend.
type FriendInfo struct {
	ID       int64  `db:"id" json:"id"`
	UserName string `db:"user_name" json:"user_name"`
	Slogan   string `db:"slogan" json:"slogan"`
	Unread   int    `db:"unread" json:"unread"`
	Online   bool   `db:"-" json:"online"`
}
