// Package gochannel provides the in-memory channel implementation for local
// development and tests.
package gochannel

import (
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

const defaultBuffer = 512

// CreateChannel returns an in-process publisher/subscriber pair backed by a
// single GoChannel. Messages are not persisted and publishes do not wait for
// subscriber acks.
func CreateChannel(logger watermill.LoggerAdapter) (*gochannel.GoChannel, *gochannel.GoChannel, error) {
	return newChannel(logger, gochannel.Config{
		OutputChannelBuffer: defaultBuffer,
	})
}

// CreateTestChannel blocks publishes until subscribers ack and replays to
// late subscribers, keeping test assertions deterministic.
func CreateTestChannel(logger watermill.LoggerAdapter) (*gochannel.GoChannel, *gochannel.GoChannel, error) {
	return newChannel(logger, gochannel.Config{
		OutputChannelBuffer:            16,
		Persistent:                     true,
		BlockPublishUntilSubscriberAck: true,
	})
}

func newChannel(logger watermill.LoggerAdapter, config gochannel.Config) (*gochannel.GoChannel, *gochannel.GoChannel, error) {
	pubSub := gochannel.NewGoChannel(config, logger)

	return pubSub, pubSub, nil
}
