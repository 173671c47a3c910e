package grpc

import (
	"context"

	"github.com/dmitrijs2005/hypesale/internal/addrx"
	"github.com/dmitrijs2005/hypesale/internal/server/models"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

func (s *GRPCServer) Status(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	st, err := s.engine.Status(ctx)
	if err != nil {
		return nil, toStatus(err)
	}
	return toStruct(st)
}

func (s *GRPCServer) VestingInfo(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	buyer, err := addressArg(in, "address")
	if err != nil {
		return nil, err
	}
	info, err := s.engine.VestingInfo(ctx, buyer)
	if err != nil {
		return nil, toStatus(err)
	}
	return toStruct(info)
}

func (s *GRPCServer) ReferralStats(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	account, err := addressArg(in, "address")
	if err != nil {
		return nil, err
	}
	st, err := s.engine.ReferralStats(ctx, account)
	if err != nil {
		return nil, toStatus(err)
	}
	return toStruct(st)
}

func (s *GRPCServer) PendingRewards(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	account, err := addressArg(in, "address")
	if err != nil {
		return nil, err
	}
	p, err := s.engine.PendingRewards(ctx, account)
	if err != nil {
		return nil, toStatus(err)
	}
	return toStruct(p)
}

func (s *GRPCServer) Referees(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	referrer, err := addressArg(in, "address")
	if err != nil {
		return nil, err
	}
	refs, err := s.engine.Referees(ctx, referrer)
	if err != nil {
		return nil, toStatus(err)
	}
	return toStruct(map[string]any{"referees": refs})
}

func (s *GRPCServer) Events(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	after, err := intArg(in, "after_seq", 0)
	if err != nil {
		return nil, err
	}
	limit, err := intArg(in, "limit", 0)
	if err != nil {
		return nil, err
	}
	events, err := s.engine.Events(ctx, after, int(limit))
	if err != nil {
		return nil, toStatus(err)
	}
	return toStruct(map[string]any{"events": events})
}

func (s *GRPCServer) RegisterReferral(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	caller, err := callerFrom(ctx)
	if err != nil {
		return nil, err
	}
	referrer, err := addressArg(in, "referrer")
	if err != nil {
		return nil, err
	}
	ref, err := s.engine.RegisterReferral(ctx, caller, referrer)
	if err != nil {
		return nil, toStatus(err)
	}
	return toStruct(ref)
}

func (s *GRPCServer) Purchase(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	caller, err := callerFrom(ctx)
	if err != nil {
		return nil, err
	}
	buyer, err := addressArg(in, "buyer")
	if err != nil {
		return nil, err
	}
	usd, err := intArg(in, "usd", 0)
	if err != nil {
		return nil, err
	}
	bonus, err := boolArg(in, "bonus")
	if err != nil {
		return nil, err
	}

	receipt, err := s.engine.Purchase(ctx, caller, buyer, usd, bonus)
	if err != nil {
		return nil, toStatus(err)
	}
	return toStruct(receipt)
}

func (s *GRPCServer) RecordPurchase(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	caller, err := callerFrom(ctx)
	if err != nil {
		return nil, err
	}
	buyer, err := addressArg(in, "buyer")
	if err != nil {
		return nil, err
	}
	usd, err := intArg(in, "usd", 0)
	if err != nil {
		return nil, err
	}
	tokens, err := intArg(in, "tokens", 0)
	if err != nil {
		return nil, err
	}

	rec, err := s.engine.RecordPurchase(ctx, caller, buyer, usd, tokens)
	if err != nil {
		return nil, toStatus(err)
	}
	return toStruct(rec)
}

func (s *GRPCServer) ClaimTokens(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	caller, err := callerFrom(ctx)
	if err != nil {
		return nil, err
	}
	claim, err := s.engine.ClaimTokens(ctx, caller)
	if err != nil {
		return nil, toStatus(err)
	}
	return toStruct(claim)
}

func (s *GRPCServer) ClaimRewards(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	caller, err := callerFrom(ctx)
	if err != nil {
		return nil, err
	}
	preferHype, err := boolArg(in, "prefer_hype")
	if err != nil {
		return nil, err
	}
	claim, err := s.engine.ClaimRewards(ctx, caller, preferHype)
	if err != nil {
		return nil, toStatus(err)
	}
	return toStruct(claim)
}

func (s *GRPCServer) SetBlacklisted(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	caller, err := callerFrom(ctx)
	if err != nil {
		return nil, err
	}
	addr, err := addressArg(in, "address")
	if err != nil {
		return nil, err
	}
	blacklisted, err := boolArg(in, "blacklisted")
	if err != nil {
		return nil, err
	}
	if err := s.engine.SetBlacklisted(ctx, caller, addr, blacklisted); err != nil {
		return nil, toStatus(err)
	}
	return emptyStruct(), nil
}

func (s *GRPCServer) DeactivateAccount(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return s.adminWithAddress(ctx, in, s.engine.DeactivateAccount)
}

func (s *GRPCServer) SetSaleContract(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return s.adminWithAddress(ctx, in, s.engine.SetSaleContract)
}

func (s *GRPCServer) TransferOwnership(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return s.adminWithAddress(ctx, in, s.engine.TransferOwnership)
}

func (s *GRPCServer) Pause(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	caller, err := callerFrom(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.engine.Pause(ctx, caller); err != nil {
		return nil, toStatus(err)
	}
	return emptyStruct(), nil
}

func (s *GRPCServer) Unpause(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	caller, err := callerFrom(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.engine.Unpause(ctx, caller); err != nil {
		return nil, toStatus(err)
	}
	return emptyStruct(), nil
}

func (s *GRPCServer) adminWithAddress(ctx context.Context, in *structpb.Struct, op func(ctx context.Context, caller, addr addrx.Address) error) (*structpb.Struct, error) {
	caller, err := callerFrom(ctx)
	if err != nil {
		return nil, err
	}
	addr, err := addressArg(in, "address")
	if err != nil {
		return nil, err
	}
	if err := op(ctx, caller, addr); err != nil {
		return nil, toStatus(err)
	}
	return emptyStruct(), nil
}

// exportPageSize bounds how many events one Events call returns while
// collecting an export.
const exportPageSize = 1000

// ExportAuditLog uploads every event after after_seq. Owner only.
func (s *GRPCServer) ExportAuditLog(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	if s.exporter == nil {
		return nil, status.Error(codes.Unimplemented, "audit export is not configured")
	}
	caller, err := callerFrom(ctx)
	if err != nil {
		return nil, err
	}
	st, err := s.engine.Status(ctx)
	if err != nil {
		return nil, toStatus(err)
	}
	if caller != st.Owner {
		return nil, status.Error(codes.PermissionDenied, "only the owner can export the audit log")
	}
	after, err := intArg(in, "after_seq", 0)
	if err != nil {
		return nil, err
	}

	var all []models.Event
	for {
		page, err := s.engine.Events(ctx, after, exportPageSize)
		if err != nil {
			return nil, toStatus(err)
		}
		if len(page) == 0 {
			break
		}
		all = append(all, page...)
		after = page[len(page)-1].Seq
	}
	if len(all) == 0 {
		return toStruct(map[string]any{"key": "", "count": 0, "last_seq": after})
	}

	key, err := s.exporter.Export(ctx, all)
	if err != nil {
		s.logger.Error(ctx, "audit export failed", "error", err)
		return nil, status.Error(codes.Unavailable, "audit export failed")
	}

	s.logger.Info(ctx, "audit log exported", "key", key, "count", len(all), "last_seq", after)
	return toStruct(map[string]any{"key": key, "count": len(all), "last_seq": after})
}
