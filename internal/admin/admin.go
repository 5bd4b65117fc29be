// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package admin creates the storefront's administrative account and assigns
// it the admin role. When the role cannot be assigned remotely, it produces
// the SQL the operator runs by hand.
package admin

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	apperr "basesetup/cli/internal/errors"
	"basesetup/cli/internal/supabase"
)

const (
	// MinPasswordLength is counted in characters, not bytes.
	MinPasswordLength = 8
	// DefaultName is used when no display name is given.
	DefaultName = "Admin"
	// Role is the role assigned to the created account.
	Role = "admin"
)

// AuthAPI is the subset of the Supabase client the provisioner uses.
type AuthAPI interface {
	SignUp(ctx context.Context, in supabase.SignUpRequest) (*supabase.SignUpResult, error)
	UpsertRole(ctx context.Context, token, userID, role string) error
}

// Request is the operator-supplied account data.
type Request struct {
	Email    string
	Password string
	Name     string
}

// Outcome describes how a successful Create ended.
type Outcome string

const (
	// Created means the account exists and holds the admin role.
	Created Outcome = "created"
	// CreatedRoleManual means the account was created but the role must be
	// assigned with RemediationSQL.
	CreatedRoleManual Outcome = "created_role_manual"
	// AlreadyExists means the address was registered before; RemediationSQL
	// assigns the role by email.
	AlreadyExists Outcome = "already_exists"
)

// Result reports a successful provisioning run.
type Result struct {
	Outcome        Outcome
	Email          string
	Name           string
	UserID         string
	RoleErr        error
	RemediationSQL string
}

// Service provisions admin accounts.
type Service struct {
	api          AuthAPI
	defaultEmail string
	log          *zap.Logger
}

// NewService creates a Service. defaultEmail fills in a blank request email.
func NewService(api AuthAPI, defaultEmail string, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{api: api, defaultEmail: strings.TrimSpace(defaultEmail), log: log}
}

// Prepare applies defaults and validates req without touching the network.
func (s *Service) Prepare(req Request) (Request, error) {
	req.Email = strings.TrimSpace(req.Email)
	req.Name = strings.TrimSpace(req.Name)
	if req.Email == "" {
		req.Email = s.defaultEmail
	}
	if req.Email == "" {
		return req, apperr.New(apperr.Validation, "admin email is required (use --email or BASESETUP_ADMIN_EMAIL)")
	}
	if !strings.Contains(req.Email, "@") {
		return req, apperr.New(apperr.Validation, fmt.Sprintf("%q is not an email address", req.Email))
	}
	if utf8.RuneCountInString(req.Password) < MinPasswordLength {
		return req, apperr.New(apperr.Validation, fmt.Sprintf("password must be at least %d characters", MinPasswordLength))
	}
	if req.Name == "" {
		req.Name = DefaultName
	}
	return req, nil
}

// Create validates req, signs the account up and assigns the admin role.
// An already registered address and a failed role assignment both count as
// success; the Result carries the SQL that finishes the job by hand.
func (s *Service) Create(ctx context.Context, req Request) (*Result, error) {
	req, err := s.Prepare(req)
	if err != nil {
		return nil, err
	}

	s.log.Debug("signing up admin", zap.String("email", req.Email))
	signed, err := s.api.SignUp(ctx, supabase.SignUpRequest{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.Name,
	})
	if err != nil {
		if apperr.Is(err, apperr.AccountExists) {
			return &Result{
				Outcome:        AlreadyExists,
				Email:          req.Email,
				Name:           req.Name,
				RemediationSQL: AssignByEmailSQL(req.Email),
			}, nil
		}
		return nil, err
	}

	res := &Result{Outcome: Created, Email: req.Email, Name: req.Name, UserID: signed.UserID}
	if err := s.api.UpsertRole(ctx, signed.AccessToken, signed.UserID, Role); err != nil {
		s.log.Debug("role upsert failed", zap.Error(err))
		res.Outcome = CreatedRoleManual
		res.RoleErr = err
		if sql, sqlErr := AssignByIDSQL(signed.UserID); sqlErr == nil {
			res.RemediationSQL = sql
		} else {
			res.RemediationSQL = AssignByEmailSQL(req.Email)
		}
	}
	return res, nil
}
