package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHeuristicEscalatorPayAndIdentity(t *testing.T) {
	e := NewHeuristicEscalator()

	boost, ok := e.Escalate("即日お支払い。身分証のコピーを送ってください。", 30)

	assert.True(t, ok)
	assert.Equal(t, 15, boost)
}

func TestHeuristicEscalatorRewardAndMessenger(t *testing.T) {
	e := NewHeuristicEscalator()

	boost, ok := e.Escalate("報酬の詳細はTelegramでお伝えします。", 40)

	assert.True(t, ok)
	assert.Equal(t, 10, boost)
}

func TestHeuristicEscalatorStacksBoosts(t *testing.T) {
	e := NewHeuristicEscalator()

	boost, ok := e.Escalate("日払いで謝礼あり。身分証を持ってテレグラムに連絡。簡単な荷物の回収です。", 25)

	assert.True(t, ok)
	assert.Equal(t, 35, boost)
}

func TestHeuristicEscalatorNoMatch(t *testing.T) {
	e := NewHeuristicEscalator()

	boost, ok := e.Escalate("事務作業のアルバイトです。経験は問いません。", 30)

	assert.False(t, ok)
	assert.Equal(t, 0, boost)
}
