package business

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twexity/relaybots/internal/domain/bot/callback"
	"github.com/twexity/relaybots/internal/domain/bot/entities"
)

func TestCheckMembership(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	const user int64 = 7

	ok, err := env.uc.CheckMembership(ctx, user)
	require.NoError(t, err)
	assert.True(t, ok, "no forced channels")

	env.addChannel(t, "-1001")
	env.addChannel(t, "-1002")

	ok, err = env.uc.CheckMembership(ctx, adminID)
	require.NoError(t, err)
	assert.True(t, ok, "admin always passes")

	ok, err = env.uc.CheckMembership(ctx, user)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, env.memberships.Save(ctx, user, "-1001", env.now))
	ok, err = env.uc.CheckMembership(ctx, user)
	require.NoError(t, err)
	assert.False(t, ok, "one channel missing")

	require.NoError(t, env.memberships.Save(ctx, user, "-1002", env.now))
	ok, err = env.uc.CheckMembership(ctx, user)
	require.NoError(t, err)
	assert.True(t, ok)

	env.addChannel(t, "-1003")
	ok, err = env.uc.CheckMembership(ctx, user)
	require.NoError(t, err)
	assert.False(t, ok, "newly required channel flips the result")

	ok, err = env.uc.CheckMembership(ctx, 8)
	require.NoError(t, err)
	assert.False(t, ok, "records are per user")
}

func TestCheckMembership_TTL(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.uc.membershipTTL = time.Hour
	env.addChannel(t, "-1001")

	require.NoError(t, env.memberships.Save(ctx, 7, "-1001", env.now))

	ok, err := env.uc.CheckMembership(ctx, 7)
	require.NoError(t, err)
	assert.True(t, ok)

	env.now = env.now.Add(2 * time.Hour)
	ok, err = env.uc.CheckMembership(ctx, 7)
	require.NoError(t, err)
	assert.False(t, ok, "expired confirmation")
}

func TestVerifyMembership_PartialCreditIsKept(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.addChannel(t, "-1001")
	env.addChannel(t, "-1002")
	env.addChannel(t, "-1003")

	env.members.statuses["-1001"] = entities.MemberStatusMember
	env.members.statuses["-1002"] = entities.MemberStatusLeft
	env.members.errs["-1003"] = errors.New("chat not found")

	ok, err := env.uc.VerifyMembership(ctx, 7)
	require.NoError(t, err)
	assert.False(t, ok)

	has, err := env.memberships.Has(ctx, 7, "-1001", time.Time{})
	require.NoError(t, err)
	assert.True(t, has, "confirmed channel is recorded")

	has, err = env.memberships.Has(ctx, 7, "-1002", time.Time{})
	require.NoError(t, err)
	assert.False(t, has)

	env.members.statuses["-1002"] = entities.MemberStatusAdministrator
	env.members.statuses["-1003"] = entities.MemberStatusCreator
	delete(env.members.errs, "-1003")

	ok, err = env.uc.VerifyMembership(ctx, 7)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = env.uc.CheckMembership(ctx, 7)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestJoinKeyboard(t *testing.T) {
	env := newTestEnv(t)
	env.addChannel(t, "-1001")
	require.NoError(t, env.channels.Add(context.Background(), &entities.ForcedChannel{ChannelID: "-1002", ChannelTitle: "Private"}))

	kb, err := env.uc.JoinKeyboard(context.Background())
	require.NoError(t, err)
	require.Len(t, kb, 3)

	assert.Equal(t, entities.Button{Text: "📢 Join Channel -1001", URL: "https://t.me/ch-1001"}, kb[0][0])
	assert.Equal(t, entities.Button{Text: "📢 Join Private", URL: "https://t.me/c/-1002"}, kb[1][0])
	assert.Equal(t, callback.DataCheckMembership, kb[2][0].Data)
}

func TestHandleCallback_GateIntercepts(t *testing.T) {
	env := newTestEnv(t)
	env.addChannel(t, "-1001")

	env.press(t, 7, callback.DataHelp)

	edit := env.sender.last("EditText")
	assert.Equal(t, membershipRequiredText(entities.LanguageFA), edit.Text)
	_, found := edit.Keyboard.Find(callback.DataCheckMembership)
	assert.True(t, found)

	env.sender.reset()
	env.press(t, 7, callback.DataCheckMembership)

	answer := env.sender.last("AnswerCallback")
	assert.Equal(t, textNotJoined, answer.Text)
	assert.True(t, answer.Alert)
	assert.Empty(t, env.sender.byMethod("EditText"))

	env.members.statuses["-1001"] = entities.MemberStatusMember
	env.press(t, 7, callback.DataCheckMembership)
	assert.Equal(t, membershipVerifiedText(entities.LanguageFA), env.sender.last("EditText").Text)

	env.sender.reset()
	env.press(t, 7, callback.DataHelp)
	assert.Equal(t, helpText(entities.LanguageFA), env.sender.last("EditText").Text)
}
