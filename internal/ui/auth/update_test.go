// Copyright (c) 2024-2025 Velora App
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velora-app/velora-tui/internal/api"
	"github.com/velora-app/velora-tui/internal/authflow"
	"github.com/velora-app/velora-tui/internal/session"
	"github.com/velora-app/velora-tui/internal/ui/styles"
)

func newTestModel(t *testing.T, initial authflow.Mode) *Model {
	t.Helper()
	client := api.New("http://127.0.0.1:1/api/v1")
	store := session.NewStore(t.TempDir())
	return New(client, store, styles.NewTheme(), initial, "test")
}

func keyMsg(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

func runeMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestRegisterSuccessEntersVerifyMode(t *testing.T) {
	m := newTestModel(t, authflow.ModeRegister)
	epoch := m.Flow().NextEpoch()
	m.Flow().Begin(authflow.OpRegister)

	_, cmd := m.Update(registerResultMsg{epoch: epoch, phone: "0912345678"})

	assert.Equal(t, authflow.ModeVerify, m.Flow().Mode())
	assert.Equal(t, "0912345678", m.Flow().Phone())
	assert.Equal(t, authflow.ResendCooldownSecs, m.Flow().Cooldown(authflow.TimerRegister))
	assert.False(t, m.Flow().Busy(authflow.OpRegister))
	require.NotNil(t, cmd, "a cooldown tick must be scheduled")
}

func TestRegisterFailureShowsServerMessage(t *testing.T) {
	m := newTestModel(t, authflow.ModeRegister)
	epoch := m.Flow().NextEpoch()
	m.Flow().Begin(authflow.OpRegister)

	m.Update(registerResultMsg{epoch: epoch, err: &api.ServerError{
		Status: 409, Code: 409, Message: "Phone number already registered",
	}})

	assert.Equal(t, authflow.ModeRegister, m.Flow().Mode(), "mode must not change on failure")
	assert.Equal(t, "Phone number already registered", m.notice)
	assert.True(t, m.noticeErr)
}

func TestStaleResultDropped(t *testing.T) {
	m := newTestModel(t, authflow.ModeRegister)
	epoch := m.Flow().NextEpoch()
	m.Flow().Begin(authflow.OpRegister)

	// User bails out before the response lands.
	m.Flow().BackToLogin()
	m.switchMode()

	m.Update(registerResultMsg{epoch: epoch, phone: "0912345678"})

	assert.Equal(t, authflow.ModeLogin, m.Flow().Mode(), "stale result must not transition")
	assert.Empty(t, m.notice)
}

func TestOTPEntryAndIncompleteSubmitShakes(t *testing.T) {
	m := newTestModel(t, authflow.ModeLogin)
	m.Flow().RegistrationAccepted("0912345678")
	m.switchMode()

	for _, d := range []string{"1", "2", "3"} {
		m.Update(runeMsg(d))
	}
	_, cmd := m.Update(keyMsg(tea.KeyEnter))

	assert.True(t, m.shake, "incomplete code must trigger the shake cue")
	assert.False(t, m.Flow().Busy(authflow.OpVerifyOTP), "no network call for incomplete code")
	require.NotNil(t, cmd, "shake clear must be scheduled")

	m.Update(shakeClearMsg{})
	assert.False(t, m.shake)
}

func TestCompleteOTPSubmitDispatches(t *testing.T) {
	m := newTestModel(t, authflow.ModeLogin)
	m.Flow().RegistrationAccepted("0912345678")
	m.switchMode()

	m.Update(runeMsg("123456"))
	_, cmd := m.Update(keyMsg(tea.KeyEnter))

	assert.True(t, m.Flow().Busy(authflow.OpVerifyOTP))
	require.NotNil(t, cmd)
}

func TestVerifySuccessReturnsToLoginAfterPause(t *testing.T) {
	m := newTestModel(t, authflow.ModeLogin)
	m.Flow().RegistrationAccepted("0912345678")
	m.switchMode()

	epoch := m.Flow().NextEpoch()
	m.Flow().Begin(authflow.OpVerifyOTP)
	_, cmd := m.Update(verifyResultMsg{epoch: epoch})

	// Still in verify while the notice shows.
	assert.Equal(t, authflow.ModeVerify, m.Flow().Mode())
	assert.NotEmpty(t, m.notice)
	require.NotNil(t, cmd)

	m.Update(backToLoginMsg{})
	assert.Equal(t, authflow.ModeLogin, m.Flow().Mode())
}

func TestResetOTPSentAndResendReplacesCredential(t *testing.T) {
	m := newTestModel(t, authflow.ModeForgot)

	epoch := m.Flow().NextEpoch()
	m.Flow().Begin(authflow.OpSendOTP)
	m.Update(resetOTPSentMsg{epoch: epoch, phone: "0912345678", credential: "cred-1"})

	assert.Equal(t, authflow.ModeVerifyReset, m.Flow().Mode())
	assert.Equal(t, "cred-1", m.Flow().ResetCredential())

	// Resend: countdown must have run out first.
	for m.Flow().Cooldown(authflow.TimerReset) > 0 {
		m.Update(cooldownTickMsg{timer: authflow.TimerReset})
	}
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	require.NotNil(t, cmd)
	assert.True(t, m.Flow().Busy(authflow.OpSendOTP))

	epoch2 := m.Flow().NextEpoch()
	m.Update(resetOTPSentMsg{epoch: epoch2, phone: "0912345678", credential: "cred-2", resend: true})
	assert.Equal(t, "cred-2", m.Flow().ResetCredential())
	assert.Equal(t, authflow.ModeVerifyReset, m.Flow().Mode())
}

func TestRegistrationResendIsInert(t *testing.T) {
	m := newTestModel(t, authflow.ModeLogin)
	m.Flow().RegistrationAccepted("0912345678")
	m.switchMode()

	for m.Flow().Cooldown(authflow.TimerRegister) > 0 {
		m.Update(cooldownTickMsg{timer: authflow.TimerRegister})
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	assert.False(t, m.Flow().Busy(authflow.OpSendOTP), "registration resend makes no network call")
	assert.Equal(t, authflow.ResendCooldownSecs, m.Flow().Cooldown(authflow.TimerRegister))
	require.NotNil(t, cmd, "countdown restarts")
}

func TestCooldownTickStopsAtZero(t *testing.T) {
	m := newTestModel(t, authflow.ModeLogin)
	m.Flow().RegistrationAccepted("0912345678")
	m.switchMode()

	var cmd tea.Cmd
	for i := 0; i < authflow.ResendCooldownSecs; i++ {
		_, cmd = m.Update(cooldownTickMsg{timer: authflow.TimerRegister})
	}
	assert.Nil(t, cmd, "no tick scheduled once the countdown hits zero")
}

func TestSignInSuccessEmitsDone(t *testing.T) {
	m := newTestModel(t, authflow.ModeLogin)
	epoch := m.Flow().NextEpoch()
	m.Flow().Begin(authflow.OpSignIn)

	sess := session.Session{Token: "tok", ID: 7, NumberPhone: "0912345678", RoleID: session.RoleCustomer}
	_, cmd := m.Update(signInResultMsg{epoch: epoch, session: sess})
	require.NotNil(t, cmd)

	msg := cmd()
	done, ok := msg.(DoneMsg)
	require.True(t, ok, "sign-in success must emit DoneMsg, got %T", msg)
	assert.Equal(t, sess, done.Session)
}

func TestSignInTransportFailure(t *testing.T) {
	m := newTestModel(t, authflow.ModeLogin)
	epoch := m.Flow().NextEpoch()
	m.Flow().Begin(authflow.OpSignIn)

	m.Update(signInResultMsg{epoch: epoch, err: errors.Join(api.ErrTransport)})

	assert.True(t, m.noticeErr)
	assert.NotEmpty(t, m.notice)
	assert.False(t, m.Flow().Busy(authflow.OpSignIn))
}

func TestValidationFailuresNeverDispatch(t *testing.T) {
	m := newTestModel(t, authflow.ModeLogin)
	m.inputs[loginFieldPhone].SetValue("12345")
	m.inputs[loginFieldPassword].SetValue("secret1")

	_, cmd := m.Update(keyMsg(tea.KeyEnter))

	assert.Nil(t, cmd)
	assert.False(t, m.Flow().Busy(authflow.OpSignIn))
	assert.True(t, m.noticeErr)
}

func TestEscDuringPendingRequestDoesNotStickBusy(t *testing.T) {
	m := newTestModel(t, authflow.ModeForgot)
	epoch := m.Flow().NextEpoch()
	m.Flow().Begin(authflow.OpSendOTP)

	// Esc lands before the response does.
	m.Update(keyMsg(tea.KeyEsc))
	assert.False(t, m.Flow().AnyBusy(), "abandoning must stop the spinner")

	// The late response is stale and must change nothing.
	m.Update(resetOTPSentMsg{epoch: epoch, phone: "0912345678", credential: "cred-1"})
	assert.Equal(t, authflow.ModeLogin, m.Flow().Mode())
	assert.Empty(t, m.Flow().ResetCredential())

	// A fresh forgot submission must still dispatch.
	m.Flow().GoForgot()
	m.switchMode()
	m.inputs[0].SetValue("0912345678")
	_, cmd := m.Update(keyMsg(tea.KeyEnter))
	require.NotNil(t, cmd, "resubmission after abandoning must fire a request")
	assert.True(t, m.Flow().Busy(authflow.OpSendOTP))
}

func TestVerifyFailureKeepsEnteredCode(t *testing.T) {
	m := newTestModel(t, authflow.ModeLogin)
	m.Flow().RegistrationAccepted("0912345678")
	m.switchMode()

	m.Update(runeMsg("123456"))
	epoch := m.Flow().NextEpoch()
	m.Flow().Begin(authflow.OpVerifyOTP)
	m.Update(verifyResultMsg{epoch: epoch, err: &api.ServerError{
		Status: 400, Code: 400, Message: "Incorrect or expired code",
	}})

	code, complete := m.Flow().OTPCode()
	assert.True(t, complete, "a rejected code must stay in the cells")
	assert.Equal(t, "123456", code)
	assert.True(t, m.noticeErr)
}

func TestVerifyResetFailureKeepsEnteredCode(t *testing.T) {
	m := newTestModel(t, authflow.ModeForgot)
	m.Flow().ResetOTPSent("0912345678", "cred-1")
	m.switchMode()

	m.Update(runeMsg("654321"))
	epoch := m.Flow().NextEpoch()
	m.Flow().Begin(authflow.OpVerifyOTP)
	m.Update(verifyResetResultMsg{epoch: epoch, err: &api.ServerError{
		Status: 400, Code: 400, Message: "Incorrect or expired code",
	}})

	code, complete := m.Flow().OTPCode()
	assert.True(t, complete, "a rejected code must stay in the cells")
	assert.Equal(t, "654321", code)
	assert.Equal(t, authflow.ModeVerifyReset, m.Flow().Mode())
}

func TestEscReturnsToLogin(t *testing.T) {
	m := newTestModel(t, authflow.ModeRegister)
	m.Update(keyMsg(tea.KeyEsc))
	assert.Equal(t, authflow.ModeLogin, m.Flow().Mode())
}

func TestPasswordChangedLandsOnLoginWithNotice(t *testing.T) {
	m := newTestModel(t, authflow.ModeForgot)
	m.Flow().ResetOTPSent("0912345678", "cred-1")
	m.Flow().ResetOTPAccepted()
	m.switchMode()

	epoch := m.Flow().NextEpoch()
	m.Flow().Begin(authflow.OpResetPassword)
	m.Update(resetPasswordResultMsg{epoch: epoch})

	assert.Equal(t, authflow.ModeLogin, m.Flow().Mode())
	assert.Empty(t, m.Flow().ResetCredential())
	assert.False(t, m.noticeErr)
	assert.NotEmpty(t, m.notice)
}
