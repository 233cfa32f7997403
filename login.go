package zoneclient

import (
	"fmt"
	"math/rand"

	"github.com/zonecore/zoneclient/internal/cipher"
	"github.com/zonecore/zoneclient/net/security"
	"github.com/zonecore/zoneclient/net/wire"
)

// loginFlow drives the connection's pre-game handshake and login exchange,
// per spec §4.10: EncryptionRequested -> Authentication -> {Registering} ->
// ArenaLogin -> MapDownload -> Complete.
type loginFlow struct {
	conn      *Connection
	conf      Config
	clientKey uint32

	vieSessionKey uint32
}

func newLoginFlow(conn *Connection, conf Config) *loginFlow {
	return &loginFlow{conn: conn, conf: conf}
}

// Begin sends the initial EncryptionRequest (classic) or handshake entry
// point (Continuum), per spec §4.10 step 1.
func (f *loginFlow) Begin() error {
	f.clientKey = rand.Uint32()
	req := wire.EncryptionRequest{Key: f.clientKey, Version: 0x01}
	if f.conf.EncryptionMethod == 1 {
		req = wire.EncryptionRequest{Key: 1, Version: 0x11}
	}
	if err := f.conn.SendRaw(req.Encode()); err != nil {
		return err
	}
	f.registerHandlers()
	return nil
}

func (f *loginFlow) registerHandlers() {
	disp := f.conn.Dispatcher()
	disp.OnCore(wire.CoreEncryptionResponse, f.onEncryptionResponse)
	disp.OnCore(wire.CoreContinuumEncResponse, f.onContinuumEncResponse)
	disp.OnCore(wire.CoreContinuumKeyExpandRequest, f.onContinuumKeyExpandRequest)
	disp.OnGame(wire.GamePasswordResponse, f.onPasswordResponse)
}

// onEncryptionResponse completes the classic handshake, per spec §4.10 step
// 2 ("classic") and advances to Authentication.
func (f *loginFlow) onEncryptionResponse(body []byte) {
	resp, err := wire.DecodeEncryptionResponse(body)
	if err != nil {
		return
	}
	vc, err := cipher.NewVieCipher(f.clientKey, resp.Key)
	if err != nil {
		f.conn.log.Warn("zoneclient: classic handshake rejected", "err", err)
		return
	}
	f.conn.SetCipher(vieAdapter{vc})
	_ = f.conn.sess.Advance(SessionAuthentication)
	f.sendLogin()
}

// onContinuumEncResponse begins the Continuum handshake: the server's two
// keys seed a ContCipher once key expansion (delegated to the security
// oracle) completes.
func (f *loginFlow) onContinuumEncResponse(body []byte) {
	resp, err := wire.DecodeContinuumEncResponse(body)
	if err != nil {
		return
	}
	if f.conn.oracle == nil {
		f.conn.log.Warn("zoneclient: continuum handshake requires a security oracle")
		return
	}
	f.conn.oracle.Submit(security.Request{Kind: security.KindKeyExpansion, Seed: resp.Key2})
	f.vieSessionKey = resp.Key1
}

// onContinuumKeyExpandRequest answers a server-issued key-expansion
// challenge by delegating the table computation to the security oracle and
// replying once it resolves.
func (f *loginFlow) onContinuumKeyExpandRequest(body []byte) {
	req, err := wire.DecodeContinuumKeyExpansionRequest(body)
	if err != nil {
		return
	}
	f.conn.oracle.Submit(security.Request{Kind: security.KindKeyExpansion, Seed: req.Seed})
}

// PollOracle drains completed oracle work, finishing the Continuum
// handshake once a key-expansion table arrives.
func (f *loginFlow) PollOracle() {
	f.conn.PollSecurity(func(r security.Response) {
		if r.Err != nil || r.Kind != security.KindKeyExpansion {
			return
		}
		expanded := cipher.ExpandKey(r.Table, f.vieSessionKey)
		f.conn.SetCipher(contAdapter{cipher.NewContCipher(expanded)})
		ack := wire.ContinuumEncAck{Key1: f.vieSessionKey, Flag: 1}
		_ = f.conn.SendRaw(ack.Encode())
		_ = f.conn.sess.Advance(SessionAuthentication)
		f.sendLogin()
	})
}

// sendLogin sends the Password/LoginRequest packet, per spec's player-entry
// flow step 3.
func (f *loginFlow) sendLogin() {
	kind := wire.GamePassword
	if f.conf.EncryptionMethod == 1 {
		kind = wire.GamePasswordCont
	}
	req := wire.LoginRequest{
		Name:        f.conf.PlayerName,
		Password:    f.conf.Password,
		ConnectType: 0x04,
		Version:     0x01,
	}
	_ = f.conn.SendRaw(req.Encode(kind))
}

// onPasswordResponse handles the server's login verdict, per spec §4.10
// step 4: on code 0, send ArenaLogin and advance to ArenaLogin.
func (f *loginFlow) onPasswordResponse(body []byte) {
	resp, err := wire.DecodePasswordResponse(body)
	if err != nil {
		return
	}
	if resp.Code != 0 {
		f.conn.log.Warn("zoneclient: login refused", "code", resp.Code)
		_ = f.conn.sess.Advance(SessionDisconnected)
		return
	}
	if resp.RegisterRequest != 0 {
		_ = f.conn.sess.Advance(SessionRegistering)
	}
	login := wire.ArenaLogin{
		Ship:      8,
		Audio:     0,
		XRes:      1024,
		YRes:      768,
		Arena:     0xFFFF,
		ArenaName: f.conf.Name,
		WantLVZ:   true,
	}
	if err := f.conn.SendRaw(login.Encode()); err != nil {
		f.conn.log.Warn("zoneclient: failed to send arena login", "err", err)
		return
	}
	_ = f.conn.sess.Advance(SessionArenaLogin)
}

// errUnexpectedState reports a handler invoked outside of its expected
// session state, surfaced through logs rather than failing the connection
// since a duplicate or reordered packet should not be fatal.
func errUnexpectedState(state SessionState) error {
	return fmt.Errorf("zoneclient: unexpected packet in state %v", state)
}
