package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix     = "user:%d"
	BlogKeyPrefix     = "blog:%d"
	FeedKey           = "blogs:feed"
	BlogStatsPrefix   = "stats:author:%d"
	FollowersPrefix   = "followers:%d"
	BlacklistedPrefix = "blacklist:%s"
)

const (
	UserTTL      = 5 * time.Minute
	BlogTTL      = 30 * time.Minute
	FeedTTL      = 1 * time.Minute
	StatsTTL     = 2 * time.Minute
	FollowersTTL = 2 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func BlogKey(blogID uint) string {
	return fmt.Sprintf(BlogKeyPrefix, blogID)
}

func AuthorStatsKey(authorID uint) string {
	return fmt.Sprintf(BlogStatsPrefix, authorID)
}

func FollowersKey(authorID uint) string {
	return fmt.Sprintf(FollowersPrefix, authorID)
}

func BlacklistKey(jti string) string {
	return fmt.Sprintf(BlacklistedPrefix, jti)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

func InvalidateBlog(ctx context.Context, blogID uint) {
	Invalidate(ctx, BlogKey(blogID))
}

func InvalidateFeed(ctx context.Context) {
	Invalidate(ctx, FeedKey)
}

func InvalidateAuthorStats(ctx context.Context, authorID uint) {
	Invalidate(ctx, AuthorStatsKey(authorID))
	Invalidate(ctx, FollowersKey(authorID))
}
