package application

import (
	"errors"
	"testing"
	"time"

	"rsvpbot/internal/domain"
	"rsvpbot/internal/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecord() entities.EventRecord {
	return entities.EventRecord{
		Title:       "Board games",
		Description: "Bring snacks",
		ScheduledAt: time.Date(2024, time.May, 1, 18, 0, 0, 0, testLoc),
		Audience:    entities.AudienceRSVPOnly,
		Stage:       entities.StageAlarmSent,
	}
}

func botMessage(embed entities.Embed) *entities.Message {
	return &entities.Message{ID: "42", ChannelID: "c1", GuildID: "g1", AuthorID: testBotID, Embeds: []entities.Embed{embed}}
}

func TestExtract(t *testing.T) {
	x := NewExtractor(testLoc)
	rec := sampleRecord()

	got, err := x.Extract(botMessage(renderEventEmbed(rec, testLoc, "f")), testBotID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "42", got.MessageID)
	assert.Equal(t, "c1", got.ChannelID)
	assert.Equal(t, "g1", got.GuildID)
	assert.Equal(t, rec.Title, got.Title)
	assert.Equal(t, rec.Description, got.Description)
	assert.True(t, rec.ScheduledAt.Equal(got.ScheduledAt))
	assert.Equal(t, entities.AudienceRSVPOnly, got.Audience)
	assert.Equal(t, entities.StageAlarmSent, got.Stage)
}

func TestExtract_NotAnEvent(t *testing.T) {
	x := NewExtractor(testLoc)
	rec := sampleRecord()

	foreign := botMessage(renderEventEmbed(rec, testLoc, "f"))
	foreign.AuthorID = "someone"

	final := rec
	final.Stage = entities.StageFinalSent

	noWhen := renderEventEmbed(rec, testLoc, "f")
	noWhen.Fields = noWhen.Fields[1:]

	for name, msg := range map[string]*entities.Message{
		"nil":          nil,
		"foreign":      foreign,
		"no embed":     {ID: "1", AuthorID: testBotID, Content: "hello"},
		"final marker": botMessage(renderEventEmbed(final, testLoc, "f")),
		"no WHEN":      botMessage(noWhen),
	} {
		got, err := x.Extract(msg, testBotID)
		assert.NoError(t, err, name)
		assert.Nil(t, got, name)
	}
}

func TestExtract_Malformed(t *testing.T) {
	x := NewExtractor(testLoc)
	embed := renderEventEmbed(sampleRecord(), testLoc, "f")
	embed.Fields[0].Value = "next friday (Friday)"

	got, err := x.Extract(botMessage(embed), testBotID)
	assert.Nil(t, got)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrMalformedEventRecord))
	assert.True(t, errors.Is(err, domain.ErrInvalidFormat))
}

func TestExtract_Defaults(t *testing.T) {
	x := NewExtractor(testLoc)
	embed := entities.Embed{
		Title:  "Raid",
		Fields: []entities.EmbedField{{Name: FieldWhen, Value: "05/01/24 18:00 (Wednesday)"}},
	}
	got, err := x.Extract(botMessage(embed), testBotID)
	require.NoError(t, err)
	assert.Equal(t, entities.AudienceEveryone, got.Audience)
	assert.Equal(t, entities.StageCreated, got.Stage)
}

func TestIsEventMessage(t *testing.T) {
	rec := sampleRecord()
	rec.Stage = entities.StageFinalSent
	msg := botMessage(renderEventEmbed(rec, testLoc, "f"))
	assert.True(t, IsEventMessage(msg, testBotID))
	assert.False(t, IsEventMessage(msg, "other-bot"))
	assert.False(t, IsEventMessage(&entities.Message{AuthorID: testBotID}, testBotID))
	assert.False(t, IsEventMessage(botMessage(entities.Embed{Title: "x"}), testBotID))
}

func TestStageMarkers(t *testing.T) {
	for _, s := range []entities.Stage{entities.StageCreated, entities.StageAlarmSent, entities.StageFinalSent} {
		assert.Equal(t, s, StageFromMarker(StageMarker(s)))
	}
	assert.Equal(t, entities.StageCreated, StageFromMarker(""))
	assert.Equal(t, entities.StageCreated, StageFromMarker("https://example.com/x.png"))
}

func TestWithStageKeepsContent(t *testing.T) {
	embed := renderEventEmbed(sampleRecord(), testLoc, "old")
	out := withStage(embed, entities.StageFinalSent, "new")
	assert.Equal(t, embed.Title, out.Title)
	assert.Equal(t, embed.Fields, out.Fields)
	assert.Equal(t, "new", out.FooterText)
	assert.Equal(t, StageMarker(entities.StageFinalSent), out.FooterIconURL)
	assert.Equal(t, StageMarker(entities.StageAlarmSent), embed.FooterIconURL)
}
