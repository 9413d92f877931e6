package main

import (
	"fmt"
	"time"
)

type Config struct {
	BufferSize       int           `env:"BUFFER_SIZE,default=256"`
	SendBufferSize   int           `env:"SEND_BUFFER_SIZE,default=256"`
	RoomCapacity     int           `env:"ROOM_CAPACITY,default=5"`
	RestCapacity     int           `env:"REST_ROOM_CAPACITY,default=5"`
	CharReplacement  string        `env:"MODERATION_CHARACTER_REPLACEMENT,default=*"`
	SinkTimeout      time.Duration `env:"SINK_TIMEOUT,default=5s"`
	HeartbeatPeriod  time.Duration `env:"HEARTBEAT_PERIOD,default=30s"`
	RestartInterval  time.Duration `env:"RESTART_INTERVAL,default=200ms"`
	WriteWait        time.Duration `env:"WS_WRITE_WAIT,default=10s"`
	PongWait         time.Duration `env:"WS_PONG_WAIT,default=60s"`
	PingInterval     time.Duration `env:"WS_PING_INTERVAL,default=54s"`
	MaxMessageSize   int64         `env:"WS_MAX_MESSAGE_SIZE,default=4096"`
	LogLevel         string        `env:"LOG_LEVEL,default=info"`
	Host             string        `env:"HOST,default=localhost"`
	Port             int           `env:"PORT,default=8080"`
}

// CharacterRune enforces that the replacement setting is one character.
func (c Config) CharacterRune() (rune, error) {
	r := []rune(c.CharReplacement)
	if len(r) != 1 {
		return 0, fmt.Errorf(
			"MODERATION_CHARACTER_REPLACEMENT must be a single character, got %q",
			c.CharReplacement,
		)
	}
	return r[0], nil
}
