package auth

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"log"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/gamehall/backend/internal/models"
)

// Result is the outcome token surfaced to clients, matching the
// plain-text protocol.
type Result string

const (
	Success Result = "SUCCESS"

	UsernameDuplicate Result = "USERNAME_DUPLICATE"
	UsernameInvalid   Result = "USERNAME_INVALID"
	PasswordEmpty     Result = "PASSWORD_EMPTY"

	UserDoesNotExist  Result = "USER_DONOT_EXIST"
	PasswordIncorrect Result = "PASSWORD_INCORRECT"

	SessdataInvalid Result = "SESSDATA_INVALID"

	AlreadyFriend     Result = "ALREADY_FRIEND"
	AlreadyRequested  Result = "ALREADY_REQUESTED"
	CannotRequestSelf Result = "CANNOT_REQUEST_SELF"

	Failed Result = "FAILED"
)

// RequestInfo is one pending friend request as shown to the requestee.
type RequestInfo struct {
	RequesterID int64  `db:"id" json:"requester_id"`
	UserName    string `db:"user_name" json:"user_name"`
	Slogan      string `db:"slogan" json:"slogan"`
}

// Authorizer owns the user table: credentials, session tokens, the
// friend graph and the unread write-behind cache. Safe for concurrent
// use; it is called from the hub worker and from HTTP handlers.
type Authorizer struct {
	db  *sqlx.DB
	rdb *redis.Client

	unread *unreadCache

	stop chan struct{}
}

// New wires an Authorizer over the user store. rdb may be nil; online
// presence and login rate limiting then degrade to no-ops.
func New(db *sqlx.DB, rdb *redis.Client) *Authorizer {
	return &Authorizer{
		db:     db,
		rdb:    rdb,
		unread: newUnreadCache(),
		stop:   make(chan struct{}),
	}
}

// Register creates a user. Names are non-empty and at most 40 chars;
// passwords non-empty.
func (a *Authorizer) Register(userName, password string) Result {
	if userName == "" || len(userName) > 40 {
		return UsernameInvalid
	}
	if password == "" {
		return PasswordEmpty
	}

	var exists bool
	if err := a.db.Get(&exists, `SELECT EXISTS (SELECT 1 FROM users WHERE user_name=$1)`, userName); err != nil {
		log.Printf("[AUTH] Register lookup failed: %v", err)
		return Failed
	}
	if exists {
		return UsernameDuplicate
	}

	if _, err := a.db.Exec(`INSERT INTO users (user_name, password) VALUES ($1, $2)`, userName, password); err != nil {
		// Lost the race on the unique index.
		return UsernameDuplicate
	}
	log.Printf("[AUTH] Created new user '%s'", userName)
	return Success
}

// mintSessdata derives a 32-bit session token from OS randomness, the
// user name and the clock. A convenience token, not a security
// primitive.
func mintSessdata(userName string) uint32 {
	var buf [4]byte
	rand.Read(buf[:])
	h := fnv.New32a()
	h.Write([]byte(userName))
	token := ((binary.BigEndian.Uint32(buf[:]) + h.Sum32()) << 16) +
		uint32(time.Now().Unix()&0xffff)
	if token == 0 {
		token = 1
	}
	return token
}

// LogInByName verifies the password and mints a fresh session token,
// invalidating any previous one.
func (a *Authorizer) LogInByName(userName, password string) (int64, uint32, Result) {
	var row struct {
		ID       int64  `db:"id"`
		Password string `db:"password"`
	}
	err := a.db.Get(&row, `SELECT id, password FROM users WHERE user_name=$1`, userName)
	if err == sql.ErrNoRows {
		return 0, 0, UserDoesNotExist
	}
	if err != nil {
		log.Printf("[AUTH] LogInByName lookup failed: %v", err)
		return 0, 0, Failed
	}
	if row.Password != password {
		return 0, 0, PasswordIncorrect
	}

	sessdata := mintSessdata(userName)
	if _, err := a.db.Exec(`UPDATE users SET sessdata=$1 WHERE id=$2`, int64(sessdata), row.ID); err != nil {
		log.Printf("[AUTH] LogInByName token update failed: %v", err)
		return 0, 0, Failed
	}
	log.Printf("[AUTH] User '%s'(#%d) logged in", userName, row.ID)
	return row.ID, sessdata, Success
}

// LogInByID is LogInByName keyed on the numeric id.
func (a *Authorizer) LogInByID(id int64, password string) (string, uint32, Result) {
	var row struct {
		UserName string `db:"user_name"`
		Password string `db:"password"`
	}
	err := a.db.Get(&row, `SELECT user_name, password FROM users WHERE id=$1`, id)
	if err == sql.ErrNoRows {
		return "", 0, UserDoesNotExist
	}
	if err != nil {
		log.Printf("[AUTH] LogInByID lookup failed: %v", err)
		return "", 0, Failed
	}
	if row.Password != password {
		return "", 0, PasswordIncorrect
	}

	sessdata := mintSessdata(row.UserName)
	if _, err := a.db.Exec(`UPDATE users SET sessdata=$1 WHERE id=$2`, int64(sessdata), id); err != nil {
		log.Printf("[AUTH] LogInByID token update failed: %v", err)
		return "", 0, Failed
	}
	log.Printf("[AUTH] User '%s'(#%d) logged in", row.UserName, id)
	return row.UserName, sessdata, Success
}

// LogOut clears the session token the client presented.
func (a *Authorizer) LogOut(sessdata uint32) Result {
	res, err := a.db.Exec(`UPDATE users SET sessdata=0 WHERE sessdata=$1`, int64(sessdata))
	if err != nil {
		log.Printf("[AUTH] LogOut failed: %v", err)
		return Failed
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return UserDoesNotExist
	}
	return Success
}

// Authorize resolves a session token to its user.
func (a *Authorizer) Authorize(sessdata uint32) (int64, string, Result) {
	if sessdata == 0 {
		return 0, "", SessdataInvalid
	}
	var row struct {
		ID       int64  `db:"id"`
		UserName string `db:"user_name"`
	}
	err := a.db.Get(&row, `SELECT id, user_name FROM users WHERE sessdata=$1`, int64(sessdata))
	if err == sql.ErrNoRows {
		return 0, "", SessdataInvalid
	}
	if err != nil {
		log.Printf("[AUTH] Authorize lookup failed: %v", err)
		return 0, "", Failed
	}
	return row.ID, row.UserName, Success
}

// SetUserName renames a user; the new name must be unused.
func (a *Authorizer) SetUserName(id int64, newUserName string) Result {
	if newUserName == "" || len(newUserName) > 40 {
		return UsernameInvalid
	}
	var exists bool
	if err := a.db.Get(&exists, `SELECT EXISTS (SELECT 1 FROM users WHERE user_name=$1)`, newUserName); err != nil {
		return Failed
	}
	if exists {
		return UsernameDuplicate
	}
	if _, err := a.db.Exec(`UPDATE users SET user_name=$1 WHERE id=$2`, newUserName, id); err != nil {
		return UsernameDuplicate
	}
	return Success
}

// SetSlogan updates the profile slogan.
func (a *Authorizer) SetSlogan(id int64, slogan string) Result {
	if _, err := a.db.Exec(`UPDATE users SET slogan=$1 WHERE id=$2`, slogan, id); err != nil {
		return Failed
	}
	return Success
}

// SetIcon records the avatar file reference.
func (a *Authorizer) SetIcon(id int64, icon string) Result {
	if _, err := a.db.Exec(`UPDATE users SET icon=$1 WHERE id=$2`, icon, id); err != nil {
		return Failed
	}
	return Success
}

// GetIcon returns the avatar file reference for the user id.
func (a *Authorizer) GetIcon(id int64) (string, Result) {
	var icon string
	err := a.db.Get(&icon, `SELECT icon FROM users WHERE id=$1`, id)
	if err == sql.ErrNoRows {
		return "", UserDoesNotExist
	}
	if err != nil {
		return "", Failed
	}
	return icon, Success
}

// GetIconByName returns the avatar file reference for the user name.
func (a *Authorizer) GetIconByName(userName string) (string, Result) {
	var icon string
	err := a.db.Get(&icon, `SELECT icon FROM users WHERE user_name=$1`, userName)
	if err == sql.ErrNoRows {
		return "", UserDoesNotExist
	}
	if err != nil {
		return "", Failed
	}
	return icon, Success
}

// GetUserInfo returns a public profile.
func (a *Authorizer) GetUserInfo(id int64) (models.User, Result) {
	var u models.User
	err := a.db.Get(&u, `SELECT id, user_name, icon, slogan FROM users WHERE id=$1`, id)
	if err == sql.ErrNoRows {
		return models.User{}, UserDoesNotExist
	}
	if err != nil {
		return models.User{}, Failed
	}
	return u, Success
}

// RaiseFriendRequest records a directed friend request.
func (a *Authorizer) RaiseFriendRequest(requesterID, requesteeID int64) Result {
	if requesterID == requesteeID {
		return CannotRequestSelf
	}

	var exists bool
	if err := a.db.Get(&exists, `SELECT EXISTS (SELECT 1 FROM users WHERE id=$1)`, requesteeID); err != nil || !exists {
		return UserDoesNotExist
	}
	if err := a.db.Get(&exists, `SELECT EXISTS (SELECT 1 FROM relations WHERE user_id=$1 AND friend_id=$2)`, requesterID, requesteeID); err != nil {
		return Failed
	}
	if exists {
		return AlreadyFriend
	}
	if err := a.db.Get(&exists, `SELECT EXISTS (SELECT 1 FROM friend_requests WHERE requester_id=$1 AND requestee_id=$2)`, requesterID, requesteeID); err != nil {
		return Failed
	}
	if exists {
		return AlreadyRequested
	}

	if _, err := a.db.Exec(`INSERT INTO friend_requests (requester_id, requestee_id) VALUES ($1, $2)`, requesterID, requesteeID); err != nil {
		// Unique-constraint conflict from a concurrent request.
		return AlreadyRequested
	}
	return Success
}

// AcceptFriendRequest consumes a pending request and creates the
// symmetric relation rows in one transaction.
func (a *Authorizer) AcceptFriendRequest(requesteeID, requesterID int64) Result {
	tx, err := a.db.Beginx()
	if err != nil {
		return Failed
	}
	defer tx.Rollback()

	res, err := tx.Exec(`DELETE FROM friend_requests WHERE requester_id=$1 AND requestee_id=$2`, requesterID, requesteeID)
	if err != nil {
		return Failed
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return Failed
	}

	if _, err := tx.Exec(`INSERT INTO relations (user_id, friend_id) VALUES ($1, $2), ($2, $1) ON CONFLICT DO NOTHING`, requesteeID, requesterID); err != nil {
		return Failed
	}
	if err := tx.Commit(); err != nil {
		return Failed
	}
	log.Printf("[AUTH] Users #%d and #%d are now friends", requesteeID, requesterID)
	return Success
}

// RemoveFriendRequest rejects a pending request.
func (a *Authorizer) RemoveFriendRequest(requesteeID, requesterID int64) Result {
	res, err := a.db.Exec(`DELETE FROM friend_requests WHERE requester_id=$1 AND requestee_id=$2`, requesterID, requesteeID)
	if err != nil {
		return Failed
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return Failed
	}
	return Success
}

// GetFriendRequests lists pending requests addressed to the user.
func (a *Authorizer) GetFriendRequests(requesteeID int64) ([]RequestInfo, Result) {
	requests := []RequestInfo{}
	err := a.db.Select(&requests, `
		SELECT u.id, u.user_name, u.slogan
		FROM friend_requests fr
		JOIN users u ON u.id = fr.requester_id
		WHERE fr.requestee_id = $1
		ORDER BY u.id`, requesteeID)
	if err != nil {
		return nil, Failed
	}
	return requests, Success
}

// GetFriendList lists the user's friends with unread counters (stored
// value plus any unflushed cache delta) and live presence.
func (a *Authorizer) GetFriendList(userID int64) ([]models.FriendInfo, Result) {
	friends := []models.FriendInfo{}
	err := a.db.Select(&friends, `
		SELECT u.id, u.user_name, u.slogan, r.unread
		FROM relations r
		JOIN users u ON u.id = r.friend_id
		WHERE r.user_id = $1
		ORDER BY u.id`, userID)
	if err != nil {
		return nil, Failed
	}
	for i := range friends {
		friends[i].Unread += a.unread.delta(userID, friends[i].ID)
		friends[i].Online = a.IsOnline(friends[i].ID)
	}
	return friends, Success
}

// UnreadAdd bumps the in-memory unread counter for (user, friend).
func (a *Authorizer) UnreadAdd(userID, friendID int64) {
	a.unread.add(userID, friendID)
}

// UnreadClear zeroes the counter in both cache and store.
func (a *Authorizer) UnreadClear(userID, friendID int64) {
	if _, err := a.db.Exec(`UPDATE relations SET unread=0 WHERE user_id=$1 AND friend_id=$2`, userID, friendID); err != nil {
		log.Printf("[AUTH] UnreadClear failed: %v", err)
	}
	a.unread.clear(userID, friendID)
}

// FlushUnread applies all cached unread deltas in one transaction and
// truncates the cache.
func (a *Authorizer) FlushUnread() {
	deltas := a.unread.drain()
	if len(deltas) == 0 {
		return
	}
	tx, err := a.db.Beginx()
	if err != nil {
		log.Printf("[AUTH] Unread flush begin failed: %v", err)
		return
	}
	defer tx.Rollback()
	for key, delta := range deltas {
		if _, err := tx.Exec(`UPDATE relations SET unread = unread + $1 WHERE user_id=$2 AND friend_id=$3`, delta, key.userID, key.friendID); err != nil {
			log.Printf("[AUTH] Unread flush failed for (%d,%d): %v", key.userID, key.friendID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		log.Printf("[AUTH] Unread flush commit failed: %v", err)
		return
	}
	log.Printf("[AUTH] Flushed %d unread counters", len(deltas))
}

// StartUnreadFlusher persists unread deltas on the given cadence until
// Stop is called.
func (a *Authorizer) StartUnreadFlusher(interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				a.FlushUnread()
			case <-a.stop:
				a.FlushUnread()
				return
			}
		}
	}()
}

// Stop shuts down the background flusher, flushing once more.
func (a *Authorizer) Stop() {
	close(a.stop)
}

// AllowLogin rate-limits login attempts per user name. Allowed when no
// Redis is wired.
func (a *Authorizer) AllowLogin(userName string, window time.Duration) bool {
	if a.rdb == nil {
		return true
	}
	ctx := context.Background()
	ok, err := a.rdb.SetNX(ctx, fmt.Sprintf("login_rate:%s", userName), 1, window).Result()
	if err != nil {
		log.Printf("[AUTH] Login rate limit check failed: %v", err)
		return true
	}
	return ok
}

// SetOnline bumps the user's live-connection counter.
func (a *Authorizer) SetOnline(userID int64) {
	if a.rdb == nil {
		return
	}
	ctx := context.Background()
	if err := a.rdb.Incr(ctx, fmt.Sprintf("online:%d", userID)).Err(); err != nil {
		log.Printf("[AUTH] Presence incr failed: %v", err)
	}
}

// SetOffline drops one live connection; the key is removed at zero.
func (a *Authorizer) SetOffline(userID int64) {
	if a.rdb == nil {
		return
	}
	ctx := context.Background()
	key := fmt.Sprintf("online:%d", userID)
	n, err := a.rdb.Decr(ctx, key).Result()
	if err != nil {
		log.Printf("[AUTH] Presence decr failed: %v", err)
		return
	}
	if n <= 0 {
		a.rdb.Del(ctx, key)
	}
}

// IsOnline reports whether the user has any live connection.
func (a *Authorizer) IsOnline(userID int64) bool {
	if a.rdb == nil {
		return false
	}
	ctx := context.Background()
	n, err := a.rdb.Exists(ctx, fmt.Sprintf("online:%d", userID)).Result()
	if err != nil {
		return false
	}
	return n > 0
}
