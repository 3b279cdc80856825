package store

// Static SQL used by the repositories. Queries with an optional cursor or
// dynamic filter are built with squirrel at the call site instead.
const (
	createUserQuery = `
		INSERT INTO users (username, password_hash)
		VALUES ($1, $2)
		RETURNING user_id, username, password_hash, created_at;`

	createUserInfoQuery = `
		INSERT INTO user_infos (owner_id, version, login_pubkey, pubkey, encrypted_content, salt)
		VALUES ($1, $2, $3, $4, $5, $6);`

	findUserByUsernameQuery = `
		SELECT user_id, username, password_hash, created_at
		FROM users
		WHERE username = $1;`

	getUserProfileQuery = `
		SELECT ui.pubkey
		FROM user_infos ui
		JOIN users u ON u.user_id = ui.owner_id
		WHERE u.username = $1;`

	mintStokenQuery = `
		INSERT INTO stokens (uid)
		VALUES ($1)
		RETURNING id;`

	getStokenByUIDQuery = `
		SELECT id, uid
		FROM stokens
		WHERE uid = $1;`

	getStokenByIDQuery = `
		SELECT id, uid
		FROM stokens
		WHERE id = $1;`

	// getCollectionForUserQuery resolves a collection by its main item uid,
	// scoped to the requesting user's membership. No membership row means
	// the collection does not exist as far as the caller is concerned.
	getCollectionForUserQuery = `
		SELECT c.id, c.owner_id, c.main_item_id, m.access_level, m.encryption_key, ct.uid
		FROM collections c
		JOIN collection_members m ON m.collection_id = c.id AND m.user_id = $1
		JOIN collection_items mi ON mi.id = c.main_item_id
		LEFT JOIN collection_types ct ON ct.id = m.collection_type_id
		WHERE mi.uid = $2;`

	// Same resolution under an exclusive lock on the collection row. The
	// lock serializes concurrent batches against one collection.
	getCollectionForUserLockedQuery = `
		SELECT c.id, c.owner_id, c.main_item_id, m.access_level, m.encryption_key, ct.uid
		FROM collections c
		JOIN collection_members m ON m.collection_id = c.id AND m.user_id = $1
		JOIN collection_items mi ON mi.id = c.main_item_id
		LEFT JOIN collection_types ct ON ct.id = m.collection_type_id
		WHERE mi.uid = $2
		FOR UPDATE OF c;`

	// getCollectionMaxStokenQuery computes the collection's current sync
	// position: the newest stoken stamped on any of its revisions or
	// memberships.
	getCollectionMaxStokenQuery = `
		SELECT GREATEST(
			COALESCE((SELECT MAX(r.stoken_id)
				FROM collection_item_revisions r
				JOIN collection_items i ON i.id = r.item_id
				WHERE i.collection_id = $1), 0),
			COALESCE((SELECT MAX(m.stoken_id)
				FROM collection_members m
				WHERE m.collection_id = $1), 0));`

	getCollectionIDByUIDQuery = `
		SELECT c.id, c.owner_id
		FROM collections c
		JOIN collection_items mi ON mi.id = c.main_item_id
		WHERE mi.uid = $1;`

	collectionExistsQuery = `
		SELECT EXISTS (
			SELECT 1
			FROM collections c
			JOIN collection_items mi ON mi.id = c.main_item_id
			WHERE c.owner_id = $1 AND mi.uid = $2);`

	insertCollectionQuery = `
		INSERT INTO collections (owner_id)
		VALUES ($1)
		RETURNING id;`

	setCollectionMainItemQuery = `
		UPDATE collections
		SET main_item_id = $1
		WHERE id = $2;`

	insertItemQuery = `
		INSERT INTO collection_items (uid, collection_id, version, encryption_key)
		VALUES ($1, $2, $3, $4)
		RETURNING id;`

	getItemByIDQuery = `
		SELECT uid, version, encryption_key
		FROM collection_items
		WHERE id = $1;`

	getItemByUIDQuery = `
		SELECT id, uid, version, encryption_key
		FROM collection_items
		WHERE collection_id = $1 AND uid = $2;`

	getCurrentRevisionQuery = `
		SELECT id, uid, meta, deleted, stoken_id
		FROM collection_item_revisions
		WHERE item_id = $1 AND current;`

	getCurrentEtagQuery = `
		SELECT r.uid
		FROM collection_items i
		JOIN collection_item_revisions r ON r.item_id = i.id AND r.current
		WHERE i.collection_id = $1 AND i.uid = $2;`

	revisionUIDExistsQuery = `
		SELECT EXISTS (
			SELECT 1 FROM collection_item_revisions WHERE uid = $1);`

	clearCurrentRevisionQuery = `
		UPDATE collection_item_revisions
		SET current = NULL
		WHERE item_id = $1 AND current;`

	insertRevisionQuery = `
		INSERT INTO collection_item_revisions (uid, item_id, stoken_id, meta, current, deleted)
		VALUES ($1, $2, $3, $4, TRUE, $5)
		RETURNING id;`

	getRevisionIDByUIDQuery = `
		SELECT id
		FROM collection_item_revisions
		WHERE item_id = $1 AND uid = $2;`

	listRevisionChunksQuery = `
		SELECT ch.uid
		FROM revision_chunk_relations rel
		JOIN collection_item_chunks ch ON ch.id = rel.chunk_id
		WHERE rel.revision_id = $1
		ORDER BY rel.id;`

	getChunkByUIDQuery = `
		SELECT id
		FROM collection_item_chunks
		WHERE collection_id = $1 AND uid = $2;`

	insertChunkQuery = `
		INSERT INTO collection_item_chunks (uid, collection_id)
		VALUES ($1, $2)
		RETURNING id;`

	linkRevisionChunkQuery = `
		INSERT INTO revision_chunk_relations (chunk_id, revision_id)
		VALUES ($1, $2);`

	getCollectionTypeQuery = `
		SELECT id
		FROM collection_types
		WHERE owner_id = $1 AND uid = $2;`

	insertCollectionTypeQuery = `
		INSERT INTO collection_types (owner_id, uid)
		VALUES ($1, $2)
		RETURNING id;`

	insertMemberQuery = `
		INSERT INTO collection_members (collection_id, user_id, stoken_id, encryption_key, collection_type_id, access_level)
		VALUES ($1, $2, $3, $4, $5, $6);`

	getMemberQuery = `
		SELECT m.id, m.collection_id, m.user_id, u.username, m.access_level, COALESCE(m.stoken_id, 0)
		FROM collection_members m
		JOIN users u ON u.user_id = m.user_id
		JOIN collections c ON c.id = m.collection_id
		JOIN collection_items mi ON mi.id = c.main_item_id
		WHERE m.user_id = $1 AND mi.uid = $2;`

	upsertRemovedMembershipQuery = `
		INSERT INTO collection_member_removeds (collection_id, user_id, stoken_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (collection_id, user_id) DO UPDATE SET stoken_id = EXCLUDED.stoken_id;`

	deleteRemovedMembershipQuery = `
		DELETE FROM collection_member_removeds
		WHERE collection_id = $1 AND user_id = $2;`

	deleteMemberQuery = `
		DELETE FROM collection_members
		WHERE collection_id = $1 AND user_id = $2;`

	updateMemberAccessLevelQuery = `
		UPDATE collection_members
		SET access_level = $1, stoken_id = $2
		WHERE collection_id = $3 AND user_id = $4;`

	listRemovedMembershipsQuery = `
		SELECT mi.uid
		FROM collection_member_removeds rm
		JOIN collections c ON c.id = rm.collection_id
		JOIN collection_items mi ON mi.id = c.main_item_id
		WHERE rm.user_id = $1 AND rm.stoken_id > $2
		ORDER BY rm.stoken_id;`

	listRemovedMembershipsBoundedQuery = `
		SELECT mi.uid
		FROM collection_member_removeds rm
		JOIN collections c ON c.id = rm.collection_id
		JOIN collection_items mi ON mi.id = c.main_item_id
		WHERE rm.user_id = $1 AND rm.stoken_id > $2 AND rm.stoken_id <= $3
		ORDER BY rm.stoken_id;`

	getOutgoingInvitationIDQuery = `
		SELECT inv.id
		FROM collection_invitations inv
		JOIN collection_members fm ON fm.id = inv.from_member_id
		WHERE fm.user_id = $1 AND inv.uid = $2;`

	getIncomingInvitationIDQuery = `
		SELECT id
		FROM collection_invitations
		WHERE user_id = $1 AND uid = $2;`

	getInvitationForUserQuery = `
		SELECT inv.id, inv.access_level, fm.collection_id, fm.user_id
		FROM collection_invitations inv
		JOIN collection_members fm ON fm.id = inv.from_member_id
		WHERE inv.uid = $1 AND inv.user_id = $2;`

	insertInvitationQuery = `
		INSERT INTO collection_invitations (uid, version, from_member_id, user_id, signed_encryption_key, access_level)
		VALUES ($1, $2, $3, $4, $5, $6);`

	deleteInvitationQuery = `
		DELETE FROM collection_invitations
		WHERE id = $1;`

	deleteOutgoingInvitationQuery = `
		DELETE FROM collection_invitations inv
		USING collection_members fm
		WHERE fm.id = inv.from_member_id AND fm.user_id = $1 AND inv.uid = $2;`

	deleteIncomingInvitationQuery = `
		DELETE FROM collection_invitations
		WHERE user_id = $1 AND uid = $2;`
)
