package dialog

import (
	"context"
	"fmt"
	"strings"

	"github.com/Ferpoks/telegram-cv-bot/internal/resume"
	"github.com/Ferpoks/telegram-cv-bot/internal/telegram"
)

// handleText advances the conversation on a free-text message. Empty or
// whitespace-only input never advances: the current prompt is repeated.
func (b *Bot) handleText(ctx context.Context, s *Session, msg *telegram.Message) error {
	if msg.From != nil {
		s.UserID = msg.From.ID
		s.Username = msg.From.Username
	}
	text := strings.TrimSpace(msg.Text)
	t := T(s.Lang)

	if text == "" {
		b.send(ctx, s.ChatID, b.promptFor(s.State, t), nil)
		return nil
	}

	switch s.State {
	case StateName:
		s.header.FullName = text
		s.State = StateTitle
		b.send(ctx, s.ChatID, t.AskTitle, nil)
	case StateTitle:
		s.header.Title = text
		s.State = StatePhone
		b.send(ctx, s.ChatID, t.AskPhone, nil)
	case StatePhone:
		s.header.Phone = text
		s.State = StateEmail
		b.send(ctx, s.ChatID, t.AskEmail, nil)
	case StateEmail:
		s.header.Email = text
		s.State = StateCity
		b.send(ctx, s.ChatID, t.AskCity, nil)
	case StateCity:
		s.header.City = text
		s.State = StateLinks
		b.send(ctx, s.ChatID, t.AskLinks, nil)
	case StateLinks:
		// Stored verbatim, placeholder included; renderers omit the line
		// only when the field is empty.
		s.header.Links = text
		s.State = StateSummary
		b.send(ctx, s.ChatID, t.AskSummary, nil)
	case StateSummary:
		s.header.Summary = text
		return b.persistHeader(ctx, s)

	case StateExpRole:
		s.exp.Role = text
		s.State = StateExpCompany
		b.send(ctx, s.ChatID, t.AskExpCompany, nil)
	case StateExpCompany:
		s.exp.Company = text
		s.State = StateExpStart
		b.send(ctx, s.ChatID, t.AskExpStart, nil)
	case StateExpStart:
		s.exp.Start = text
		s.State = StateExpEnd
		b.send(ctx, s.ChatID, t.AskExpEnd, nil)
	case StateExpEnd:
		s.exp.End = text
		s.State = StateExpBullets
		b.send(ctx, s.ChatID, t.AskExpBullets, nil)
	case StateExpBullets:
		s.exp.Bullets = resume.SplitBullets(text)
		if err := b.repo.AppendExperience(ctx, s.ProfileID, s.exp); err != nil {
			return fmt.Errorf("append experience: %w", err)
		}
		s.exp = resume.Experience{}
		b.send(ctx, s.ChatID, t.ExpAdded, nil)
		b.sendHub(ctx, s)

	case StateEduDegree:
		s.edu.Degree = text
		s.State = StateEduMajor
		b.send(ctx, s.ChatID, t.AskEduMajor, nil)
	case StateEduMajor:
		s.edu.Major = text
		s.State = StateEduSchool
		b.send(ctx, s.ChatID, t.AskEduSchool, nil)
	case StateEduSchool:
		s.edu.School = text
		s.State = StateEduYear
		b.send(ctx, s.ChatID, t.AskEduYear, nil)
	case StateEduYear:
		s.edu.Year = text
		if err := b.repo.AppendEducation(ctx, s.ProfileID, s.edu); err != nil {
			return fmt.Errorf("append education: %w", err)
		}
		s.edu = resume.Education{}
		b.send(ctx, s.ChatID, t.EduAdded, nil)
		b.sendHub(ctx, s)

	case StateSkills:
		skills := strings.Join(resume.SplitSkills(text), ", ")
		if err := b.repo.ReplaceSkills(ctx, s.ProfileID, skills); err != nil {
			return fmt.Errorf("replace skills: %w", err)
		}
		b.send(ctx, s.ChatID, t.SkillsSet, nil)
		b.sendHub(ctx, s)

	default:
		// Idle, chooser, or export states expect buttons, not text.
		b.send(ctx, s.ChatID, t.Reprompt, nil)
	}
	return nil
}

// persistHeader creates the profile row once the last header field arrives
// and moves the conversation to the hub.
func (b *Bot) persistHeader(ctx context.Context, s *Session) error {
	if err := b.repo.EnsureUser(ctx, s.UserID, s.Lang); err != nil {
		return fmt.Errorf("ensure user: %w", err)
	}
	pid, err := b.repo.CreateProfile(ctx, s.UserID, s.Lang, s.Template)
	if err != nil {
		return fmt.Errorf("create profile: %w", err)
	}
	if err := b.repo.UpdateHeader(ctx, pid, s.header); err != nil {
		return fmt.Errorf("update header: %w", err)
	}
	s.ProfileID = pid
	b.sendHub(ctx, s)
	return nil
}

func (b *Bot) promptFor(state State, t texts) string {
	switch state {
	case StateName:
		return t.AskName
	case StateTitle:
		return t.AskTitle
	case StatePhone:
		return t.AskPhone
	case StateEmail:
		return t.AskEmail
	case StateCity:
		return t.AskCity
	case StateLinks:
		return t.AskLinks
	case StateSummary:
		return t.AskSummary
	case StateExpRole:
		return t.AskExpRole
	case StateExpCompany:
		return t.AskExpCompany
	case StateExpStart:
		return t.AskExpStart
	case StateExpEnd:
		return t.AskExpEnd
	case StateExpBullets:
		return t.AskExpBullets
	case StateEduDegree:
		return t.AskEduDegree
	case StateEduMajor:
		return t.AskEduMajor
	case StateEduSchool:
		return t.AskEduSchool
	case StateEduYear:
		return t.AskEduYear
	case StateSkills:
		return t.AskSkills
	}
	return t.Reprompt
}
