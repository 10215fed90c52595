package wire

// 認証サービス（proto/auth.proto）。
const (
	// AuthService は認証サービスのパス（"/" + 完全修飾名）。
	AuthService = "/auth.Auth"
	// MethodRegister はユーザー登録RPC。
	MethodRegister = AuthService + "/Register"
	// MethodLogin はログインRPC。
	MethodLogin = AuthService + "/Login"
	// MethodIsAdmin は管理者判定RPC。
	MethodIsAdmin = AuthService + "/IsAdmin"
)

// RegisterRequest はauth.RegisterRequest。
type RegisterRequest struct {
	Email    string
	Password string
}

func (m *RegisterRequest) MarshalWire() ([]byte, error) {
	var b []byte
	b = appendString(b, 1, m.Email)
	b = appendString(b, 2, m.Password)
	return b, nil
}

func (m *RegisterRequest) UnmarshalWire(b []byte) error {
	*m = RegisterRequest{}
	return walkFields(b, func(f field) error {
		switch {
		case f.isBytes(1):
			m.Email = string(f.bytes)
		case f.isBytes(2):
			m.Password = string(f.bytes)
		}
		return nil
	})
}

// RegisterResponse はauth.RegisterResponse。
type RegisterResponse struct {
	UserID string
}

func (m *RegisterResponse) MarshalWire() ([]byte, error) {
	return appendString(nil, 1, m.UserID), nil
}

func (m *RegisterResponse) UnmarshalWire(b []byte) error {
	*m = RegisterResponse{}
	return walkFields(b, func(f field) error {
		if f.isBytes(1) {
			m.UserID = string(f.bytes)
		}
		return nil
	})
}

// LoginRequest はauth.LoginRequest。
type LoginRequest struct {
	Email    string
	Password string
	// AppID はトークンを発行するアプリケーションのID。
	AppID int32
}

func (m *LoginRequest) MarshalWire() ([]byte, error) {
	var b []byte
	b = appendString(b, 1, m.Email)
	b = appendString(b, 2, m.Password)
	b = appendInt32(b, 3, m.AppID)
	return b, nil
}

func (m *LoginRequest) UnmarshalWire(b []byte) error {
	*m = LoginRequest{}
	return walkFields(b, func(f field) error {
		switch {
		case f.isBytes(1):
			m.Email = string(f.bytes)
		case f.isBytes(2):
			m.Password = string(f.bytes)
		case f.isVarint(3):
			m.AppID = int32(f.varint)
		}
		return nil
	})
}

// LoginResponse はauth.LoginResponse。
type LoginResponse struct {
	Token string
}

func (m *LoginResponse) MarshalWire() ([]byte, error) {
	return appendString(nil, 1, m.Token), nil
}

func (m *LoginResponse) UnmarshalWire(b []byte) error {
	*m = LoginResponse{}
	return walkFields(b, func(f field) error {
		if f.isBytes(1) {
			m.Token = string(f.bytes)
		}
		return nil
	})
}

// IsAdminRequest はauth.IsAdminRequest。
type IsAdminRequest struct {
	UserID string
}

func (m *IsAdminRequest) MarshalWire() ([]byte, error) {
	return appendString(nil, 1, m.UserID), nil
}

func (m *IsAdminRequest) UnmarshalWire(b []byte) error {
	*m = IsAdminRequest{}
	return walkFields(b, func(f field) error {
		if f.isBytes(1) {
			m.UserID = string(f.bytes)
		}
		return nil
	})
}

// IsAdminResponse はauth.IsAdminResponse。
type IsAdminResponse struct {
	IsAdmin bool
}

func (m *IsAdminResponse) MarshalWire() ([]byte, error) {
	return appendBool(nil, 1, m.IsAdmin), nil
}

func (m *IsAdminResponse) UnmarshalWire(b []byte) error {
	*m = IsAdminResponse{}
	return walkFields(b, func(f field) error {
		if f.isVarint(1) {
			m.IsAdmin = f.varint != 0
		}
		return nil
	})
}
