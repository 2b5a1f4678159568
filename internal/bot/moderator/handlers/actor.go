package handlers

import (
	"AidDesk/internal/core/domain"
	"strconv"
)

func telegramActor(userID int64) domain.Actor {
	return domain.Actor{Channel: domain.ChannelTelegram, ID: strconv.FormatInt(userID, 10)}
}
