package farcaster

import (
	"context"
	"errors"

	"crypto-match/internal/domain"
)

// ErrUserNotFound indica que el FID no existe en la red o no pudo resolverse.
var ErrUserNotFound = errors.New("farcaster user not found")

const (
	defaultCastLimit       = 25
	directFollowingLimit   = 150
	secondDegreeLimit      = 50
	secondDegreeSampleSize = 10
)

// Client obtiene datos de usuario y grafo social de Farcaster.
type Client interface {
	UserData(ctx context.Context, fid int64) (domain.UserData, error)
	SocialGraph(ctx context.Context, fid int64, depth int) ([]int64, error)
}

// UserResolver resuelve un username a sus datos de usuario. Es opcional para un Client.
type UserResolver interface {
	UserByUsername(ctx context.Context, username string) (domain.UserData, error)
}

// appendUnique agrega fids preservando el orden de primera aparicion.
func appendUnique(dst []int64, seen map[int64]struct{}, fids []int64, exclude int64) []int64 {
	for _, fid := range fids {
		if fid <= 0 || fid == exclude {
			continue
		}
		if _, ok := seen[fid]; ok {
			continue
		}
		seen[fid] = struct{}{}
		dst = append(dst, fid)
	}
	return dst
}
