package utils

import (
	"fmt"
	"strconv"
	"sync"
	"time"
)

const (
	// 2024-01-01 00:00:00 UTC，单位毫秒
	snowflakeEpochMilli int64 = 1704067200000

	nodeBits uint8 = 10
	seqBits  uint8 = 12

	maxNodeID int64 = -1 ^ (-1 << nodeBits)
	maxSeq    int64 = -1 ^ (-1 << seqBits)

	nodeShift uint8 = seqBits
	timeShift uint8 = nodeBits + seqBits
)

type Snowflake struct {
	mu     sync.Mutex
	nodeID int64
	lastTS int64
	seq    int64
}

func NewSnowflake(nodeID int64) (*Snowflake, error) {
	if nodeID < 0 || nodeID > maxNodeID {
		return nil, fmt.Errorf("snowflake node id out of range: %d", nodeID)
	}
	return &Snowflake{nodeID: nodeID}, nil
}

func (s *Snowflake) NextID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	ts := time.Now().UnixMilli()
	if ts < s.lastTS {
		// 时钟回拨时不回退，保持单调递增。
		ts = s.lastTS
	}

	if ts == s.lastTS {
		s.seq = (s.seq + 1) & maxSeq
		if s.seq == 0 {
			// 当前毫秒序列用尽，自旋到下一毫秒
			for ts <= s.lastTS {
				ts = time.Now().UnixMilli()
			}
		}
	} else {
		s.seq = 0
	}
	s.lastTS = ts

	return (ts-snowflakeEpochMilli)<<timeShift | s.nodeID<<nodeShift | s.seq
}

// NextString 返回 base36 字符串形式的 id（会话/玩家 id 用这个，对外不透出数值含义）。
func (s *Snowflake) NextString() string {
	return strconv.FormatInt(s.NextID(), 36)
}
